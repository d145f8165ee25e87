package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/assetsync/internal/domain"
)

// AssetCreator creates one asset per inventory unit of a purchase receipt.
type AssetCreator struct {
	config   *domain.AssetConfig
	tx       txRunner
	items    ItemCatalog
	assets   AssetRepository
	resolver RateResolver
	events   assetEvents
	guard    idempotencyGuard
	clock    Clock
	logger   zerolog.Logger
}

// NewAssetCreator creates a new AssetCreator. idempotency may be nil.
func NewAssetCreator(
	config *domain.AssetConfig,
	txManager TransactionManager,
	items ItemCatalog,
	assets AssetRepository,
	outbox OutboxRepository,
	resolver RateResolver,
	idGen IDGenerator,
	idempotency IdempotencyStore,
	clock Clock,
	logger zerolog.Logger,
) *AssetCreator {
	return &AssetCreator{
		config:   config,
		tx:       txRunner{txManager: txManager},
		items:    items,
		assets:   assets,
		resolver: resolver,
		events:   assetEvents{outbox: outbox, idGen: idGen},
		guard:    newIdempotencyGuard(idempotency, logger),
		clock:    clock,
		logger:   logger,
	}
}

// CreationResult summarizes asset creation for one purchase receipt.
type CreationResult struct {
	ReceiptID string
	Created   []*domain.Asset
	// UnmappedLines counts lines whose item account has no depreciation profile.
	UnmappedLines int
	// CurrencyNotMapped is set when the whole receipt was skipped.
	CurrencyNotMapped bool
	Duplicates        int
	Failures          []UnitFailure
}

// CreateFromPurchase creates assets for every inventory unit on receipt lines
// whose item asset account is mapped. Unit failures are collected and
// returned joined; a rate lookup failure aborts the receipt before anything
// is written.
func (uc *AssetCreator) CreateFromPurchase(ctx context.Context, receipt *domain.InventoryReceipt) (*CreationResult, error) {
	result := &CreationResult{ReceiptID: receipt.ID}
	log := uc.logger.With().Str("receipt_id", receipt.ID).Logger()

	currency, ok := uc.config.Currency(receipt.SubsidiaryID)
	if !ok {
		log.Debug().Str("subsidiary_id", receipt.SubsidiaryID).Msg("subsidiary currency not mapped, receipt skipped")
		result.CurrencyNotMapped = true
		return result, nil
	}

	var (
		rate         decimal.Decimal
		rateResolved bool
	)

	for _, line := range receipt.Lines {
		item, err := uc.items.GetItem(ctx, line.ItemID)
		if err != nil {
			result.Failures = append(result.Failures, UnitFailure{Line: line.Index, Assignment: -1, Err: fmt.Errorf("item %s: %w", line.ItemID, err)})
			log.Error().Err(err).Int("line", line.Index).Str("item_id", line.ItemID).Msg("item lookup failed")
			continue
		}

		profile, ok := uc.config.Profile(item.AssetAccount)
		if !ok {
			result.UnmappedLines++
			log.Debug().Int("line", line.Index).Str("asset_account", item.AssetAccount).Msg("asset account not mapped, line skipped")
			continue
		}

		for i, assignment := range line.Assignments {
			key := unitKey(keyPrefixCreate, receipt.ID, line.Index, i, assignment.Number)

			claimed, err := uc.guard.claim(ctx, key)
			if err != nil {
				result.Failures = append(result.Failures, UnitFailure{Line: line.Index, Assignment: i, Serial: assignment.Number, Err: err})
				continue
			}
			if !claimed {
				result.Duplicates++
				log.Debug().Str("serial", assignment.Number).Msg("unit already processed")
				continue
			}

			if !rateResolved {
				rate, _, err = uc.resolver.Resolve(ctx, receipt.SubsidiaryID, receipt)
				if err != nil {
					uc.guard.release(ctx, key)
					return result, fmt.Errorf("receipt %s: %w", receipt.ID, err)
				}
				rateResolved = true
			}

			quantity := line.Quantity
			if assignment.IsSerialized() {
				quantity = 1
			}

			now := uc.clock.Now()
			asset := &domain.Asset{
				ID:                       uc.events.idGen.Generate(),
				Name:                     item.DisplayName,
				Description:              uc.config.Description,
				Profile:                  profile,
				SerialNumber:             assignment.Number,
				ItemID:                   item.ID,
				Quantity:                 quantity,
				Values:                   domain.UniformValues(domain.ComputeValue(item.LastPurchasePrice, quantity, rate)),
				LocationID:               receipt.LocationID,
				SubsidiaryID:             receipt.SubsidiaryID,
				CurrencyID:               currency.Currency,
				GrandparentTransactionID: receipt.ID,
				SourceTransactionID:      receipt.ID,
				SourceLine:               line.Index,
				CreatedAt:                now,
				UpdatedAt:                now,
			}

			if err := uc.persist(ctx, asset); err != nil {
				uc.guard.release(ctx, key)
				result.Failures = append(result.Failures, UnitFailure{Line: line.Index, Assignment: i, Serial: assignment.Number, Err: err})
				log.Error().Err(err).Str("serial", assignment.Number).Msg("asset creation failed")
				continue
			}

			uc.guard.complete(ctx, key, asset.ID)
			result.Created = append(result.Created, asset)

			log.Info().
				Str("asset_id", asset.ID).
				Str("serial", asset.SerialNumber).
				Int64("quantity", asset.Quantity).
				Str("cost", asset.Values.Cost.String()).
				Msg("asset created")
		}
	}

	return result, joinFailures(result.Failures)
}

// WithRetrier retries each unit's transaction on transient storage errors.
func (uc *AssetCreator) WithRetrier(r Retrier) *AssetCreator {
	uc.tx.retrier = r
	return uc
}

func (uc *AssetCreator) persist(ctx context.Context, asset *domain.Asset) error {
	return uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		return uc.events.create(ctx, tx, uc.assets, asset, CausePurchaseReceipt, asset.CreatedAt)
	})
}
