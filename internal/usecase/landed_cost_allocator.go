package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/assetsync/internal/domain"
)

// LandedCostAllocator spreads a receipt's landed cost over the assets it
// created, weighted by each asset's line share of the purchase price.
type LandedCostAllocator struct {
	tx       txRunner
	receipts ReceiptRepository
	items    ItemCatalog
	assets   AssetRepository
	events   assetEvents
	guard    idempotencyGuard
	clock    Clock
	logger   zerolog.Logger
}

// NewLandedCostAllocator creates a new LandedCostAllocator. idempotency may be nil.
func NewLandedCostAllocator(
	txManager TransactionManager,
	receipts ReceiptRepository,
	items ItemCatalog,
	assets AssetRepository,
	outbox OutboxRepository,
	idGen IDGenerator,
	idempotency IdempotencyStore,
	clock Clock,
	logger zerolog.Logger,
) *LandedCostAllocator {
	return &LandedCostAllocator{
		tx:       txRunner{txManager: txManager},
		receipts: receipts,
		items:    items,
		assets:   assets,
		events:   assetEvents{outbox: outbox, idGen: idGen},
		guard:    newIdempotencyGuard(idempotency, logger),
		clock:    clock,
		logger:   logger,
	}
}

// Allocation is the landed cost added to one asset.
type Allocation struct {
	AssetID string
	ItemID  string
	Weight  decimal.Decimal
	Portion decimal.Decimal
}

// AllocationResult summarizes one landed cost allocation.
type AllocationResult struct {
	ReceiptID          string
	TotalPurchasePrice decimal.Decimal
	TotalLandedCost    decimal.Decimal
	Allocations        []Allocation
	// Duplicate is set when these landed cost values were already applied.
	Duplicate bool
}

// Allocate reloads the receipt and adds each asset's share of the total landed
// cost to its cost and current cost. All assets are updated in one
// transaction.
func (uc *LandedCostAllocator) Allocate(ctx context.Context, receiptID string) (*AllocationResult, error) {
	receipt, err := uc.receipts.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	details, err := uc.lineDetails(ctx, receipt)
	if err != nil {
		return nil, err
	}

	totalPurchase := decimal.Zero
	for _, d := range details {
		totalPurchase = totalPurchase.Add(d.Total)
	}

	result := &AllocationResult{
		ReceiptID:          receipt.ID,
		TotalPurchasePrice: totalPurchase,
		TotalLandedCost:    receipt.LandedCosts.Total(),
	}

	key := keyPrefixLandedCost + ":" + receipt.ID + ":" + receipt.LandedCosts.Fingerprint()

	claimed, err := uc.guard.claim(ctx, key)
	if err != nil {
		return nil, err
	}
	if !claimed {
		result.Duplicate = true
		uc.logger.Debug().Str("receipt_id", receipt.ID).Msg("landed cost already allocated")
		return result, nil
	}

	if err := uc.apply(ctx, receipt.ID, details, result); err != nil {
		uc.guard.release(ctx, key)
		return nil, err
	}

	uc.guard.complete(ctx, key, "allocated")

	uc.logger.Info().
		Str("receipt_id", receipt.ID).
		Str("total_purchase_price", totalPurchase.String()).
		Str("total_landed_cost", result.TotalLandedCost.String()).
		Int("assets", len(result.Allocations)).
		Msg("landed cost allocated")

	return result, nil
}

// WithRetrier retries the allocation transaction on transient storage errors.
func (uc *LandedCostAllocator) WithRetrier(r Retrier) *LandedCostAllocator {
	uc.tx.retrier = r
	return uc
}

func (uc *LandedCostAllocator) apply(ctx context.Context, receiptID string, details []domain.ItemLineDetail, result *AllocationResult) error {
	var allocations []Allocation

	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		allocations = nil

		assets, err := uc.assets.ListByGrandparentForUpdate(ctx, tx, receiptID)
		if err != nil {
			return err
		}

		if len(assets) == 0 {
			return nil
		}

		if result.TotalPurchasePrice.IsZero() {
			return fmt.Errorf("receipt %s: %w", receiptID, domain.ErrZeroPurchasePrice)
		}

		now := uc.clock.Now()
		allocations = make([]Allocation, 0, len(assets))

		for _, asset := range assets {
			weight := lineWeight(details, asset.ItemID)

			portion, err := domain.ProportionalShare(result.TotalLandedCost, weight, result.TotalPurchasePrice)
			if err != nil {
				return err
			}

			asset.AddLandedCost(portion)

			if err := uc.events.update(ctx, tx, uc.assets, asset, domain.EventTypeAssetUpdated, CauseLandedCost, now); err != nil {
				return err
			}

			allocations = append(allocations, Allocation{
				AssetID: asset.ID,
				ItemID:  asset.ItemID,
				Weight:  weight,
				Portion: portion,
			})
		}

		return nil
	})
	if err != nil {
		return err
	}

	result.Allocations = allocations

	return nil
}

func (uc *LandedCostAllocator) lineDetails(ctx context.Context, receipt *domain.InventoryReceipt) ([]domain.ItemLineDetail, error) {
	details := make([]domain.ItemLineDetail, 0, len(receipt.Lines))

	for _, line := range receipt.Lines {
		item, err := uc.items.GetItem(ctx, line.ItemID)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", line.ItemID, err)
		}

		details = append(details, domain.NewItemLineDetail(line.ItemID, line.Quantity, item.LastPurchasePrice))
	}

	return details, nil
}

// lineWeight is the total of the first line carrying itemID, or zero.
func lineWeight(details []domain.ItemLineDetail, itemID string) decimal.Decimal {
	for _, d := range details {
		if d.ItemID == itemID {
			return d.Total
		}
	}

	return decimal.Zero
}
