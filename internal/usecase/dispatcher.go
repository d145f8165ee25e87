package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/assetsync/internal/domain"
)

// DispatchOutcome names what a receipt event led to.
type DispatchOutcome string

const (
	DispatchIgnored     DispatchOutcome = "ignored"
	DispatchPurchase    DispatchOutcome = "purchase"
	DispatchTransfer    DispatchOutcome = "transfer"
	DispatchUnsupported DispatchOutcome = "unsupported"
	DispatchLandedCost  DispatchOutcome = "landed_cost"
	DispatchUnchanged   DispatchOutcome = "unchanged"
)

// DispatchResult reports the routing decision for one receipt event and the
// result of the operation it ran, if any.
type DispatchResult struct {
	ReceiptID       string
	Outcome         DispatchOutcome
	TransactionType domain.TransactionType
	Creation        *CreationResult
	Transfer        *TransferResult
	Allocation      *AllocationResult
}

// Dispatcher routes host receipt events to the asset operations.
type Dispatcher struct {
	config       *domain.AssetConfig
	receipts     ReceiptRepository
	transactions TransactionLookup
	creator      PurchaseAssetCreator
	reconciler   TransferProcessor
	allocator    LandedCostProcessor
	logger       zerolog.Logger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(
	config *domain.AssetConfig,
	receipts ReceiptRepository,
	transactions TransactionLookup,
	creator PurchaseAssetCreator,
	reconciler TransferProcessor,
	allocator LandedCostProcessor,
	logger zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		config:       config,
		receipts:     receipts,
		transactions: transactions,
		creator:      creator,
		reconciler:   reconciler,
		allocator:    allocator,
		logger:       logger,
	}
}

// OnCreate handles a newly created receipt: purchase receipts create assets,
// transfer receipts reconcile them, anything else is a no-op.
func (d *Dispatcher) OnCreate(ctx context.Context, receiptID string) (*DispatchResult, error) {
	receipt, err := d.receipts.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	result := &DispatchResult{ReceiptID: receipt.ID}

	if !d.allowed(receipt) {
		result.Outcome = DispatchIgnored
		return result, nil
	}

	result.TransactionType = domain.TransactionTypeOther
	if receipt.CreatedFromID != "" {
		result.TransactionType, err = d.transactions.GetType(ctx, receipt.CreatedFromID)
		if err != nil {
			return nil, fmt.Errorf("lookup transaction %s: %w", receipt.CreatedFromID, err)
		}
	}

	switch result.TransactionType {
	case domain.TransactionTypePurchaseOrder:
		result.Outcome = DispatchPurchase
		result.Creation, err = d.creator.CreateFromPurchase(ctx, receipt)
	case domain.TransactionTypeTransferOrder:
		result.Outcome = DispatchTransfer
		result.Transfer, err = d.reconciler.Reconcile(ctx, receipt)
	default:
		result.Outcome = DispatchUnsupported
		d.logger.Info().
			Str("receipt_id", receipt.ID).
			Str("created_from", receipt.CreatedFromID).
			Msg("receipt not created from a purchase or transfer order, nothing to do")
	}

	return result, err
}

// OnUpdate handles an edited receipt. Landed cost is allocated only when at
// least one landed cost field changed.
func (d *Dispatcher) OnUpdate(ctx context.Context, newReceipt, oldReceipt *domain.InventoryReceipt) (*DispatchResult, error) {
	result := &DispatchResult{ReceiptID: newReceipt.ID}

	if !d.allowed(newReceipt) {
		result.Outcome = DispatchIgnored
		return result, nil
	}

	if newReceipt.LandedCosts.Equal(oldReceipt.LandedCosts) {
		result.Outcome = DispatchUnchanged
		d.logger.Debug().Str("receipt_id", newReceipt.ID).Msg("landed cost unchanged")
		return result, nil
	}

	result.Outcome = DispatchLandedCost

	var err error
	result.Allocation, err = d.allocator.Allocate(ctx, newReceipt.ID)

	return result, err
}

// HandleReceiptUpdated loads the current receipt and treats previous as the
// landed cost values before the edit.
func (d *Dispatcher) HandleReceiptUpdated(ctx context.Context, receiptID string, previous domain.LandedCosts) (*DispatchResult, error) {
	receipt, err := d.receipts.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	old := *receipt
	old.LandedCosts = previous

	return d.OnUpdate(ctx, receipt, &old)
}

func (d *Dispatcher) allowed(receipt *domain.InventoryReceipt) bool {
	if d.config.IsAllowed(receipt.SubsidiaryID) {
		return true
	}

	d.logger.Info().
		Str("receipt_id", receipt.ID).
		Str("subsidiary_id", receipt.SubsidiaryID).
		Msg("subsidiary not in allow-list, receipt ignored")

	return false
}
