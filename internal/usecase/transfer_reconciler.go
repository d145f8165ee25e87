package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/assetsync/internal/domain"
)

// TransferReconciler moves asset quantity and value between locations for
// transfer receipts. Receipt LocationID is the destination and
// TransferLocationID is where the moved stock is currently booked.
type TransferReconciler struct {
	tx     txRunner
	assets AssetRepository
	events assetEvents
	guard  idempotencyGuard
	clock  Clock
	logger zerolog.Logger
}

// NewTransferReconciler creates a new TransferReconciler. idempotency may be nil.
func NewTransferReconciler(
	txManager TransactionManager,
	assets AssetRepository,
	outbox OutboxRepository,
	idGen IDGenerator,
	idempotency IdempotencyStore,
	clock Clock,
	logger zerolog.Logger,
) *TransferReconciler {
	return &TransferReconciler{
		tx:     txRunner{txManager: txManager},
		assets: assets,
		events: assetEvents{outbox: outbox, idGen: idGen},
		guard:  newIdempotencyGuard(idempotency, logger),
		clock:  clock,
		logger: logger,
	}
}

// TransferOutcome reports the branch applied to one inventory unit.
type TransferOutcome struct {
	Line               int
	Assignment         int
	Serial             string
	Quantity           int64
	Case               domain.TransferCase
	SourceAssetID      string
	DestinationAssetID string
}

// TransferResult summarizes reconciliation of one transfer receipt.
type TransferResult struct {
	ReceiptID  string
	Outcomes   []TransferOutcome
	Duplicates int
	Failures   []UnitFailure
}

// Reconcile applies the transfer branch of every inventory unit on receipt.
// Each unit runs in its own transaction; failures are collected and
// returned joined.
func (uc *TransferReconciler) Reconcile(ctx context.Context, receipt *domain.InventoryReceipt) (*TransferResult, error) {
	if receipt.LocationID == "" || receipt.TransferLocationID == "" {
		return nil, fmt.Errorf("receipt %s: %w", receipt.ID, domain.ErrMissingLocation)
	}

	if receipt.LocationID == receipt.TransferLocationID {
		return nil, fmt.Errorf("receipt %s: %w", receipt.ID, domain.ErrSameLocation)
	}

	result := &TransferResult{ReceiptID: receipt.ID}
	log := uc.logger.With().
		Str("receipt_id", receipt.ID).
		Str("destination", receipt.LocationID).
		Str("source", receipt.TransferLocationID).
		Logger()

	for _, line := range receipt.Lines {
		for i, assignment := range line.Assignments {
			failure := UnitFailure{Line: line.Index, Assignment: i, Serial: assignment.Number}

			if assignment.Quantity <= 0 {
				failure.Err = domain.ErrInvalidQuantity
				result.Failures = append(result.Failures, failure)
				log.Error().Str("serial", assignment.Number).Int64("quantity", assignment.Quantity).Msg("invalid transfer quantity")
				continue
			}

			key := unitKey(keyPrefixTransfer, receipt.ID, line.Index, i, assignment.Number)

			claimed, err := uc.guard.claim(ctx, key)
			if err != nil {
				failure.Err = err
				result.Failures = append(result.Failures, failure)
				continue
			}
			if !claimed {
				result.Duplicates++
				log.Debug().Str("serial", assignment.Number).Msg("unit already reconciled")
				continue
			}

			outcome := TransferOutcome{
				Line:       line.Index,
				Assignment: i,
				Serial:     assignment.Number,
				Quantity:   assignment.Quantity,
			}

			if err := uc.reconcileUnit(ctx, receipt, &outcome, log); err != nil {
				uc.guard.release(ctx, key)
				failure.Err = err
				result.Failures = append(result.Failures, failure)
				log.Error().Err(err).Str("serial", assignment.Number).Msg("transfer reconciliation failed")
				continue
			}

			uc.guard.complete(ctx, key, string(outcome.Case))
			result.Outcomes = append(result.Outcomes, outcome)
		}
	}

	return result, joinFailures(result.Failures)
}

// WithRetrier retries each unit's transaction on transient storage errors.
func (uc *TransferReconciler) WithRetrier(r Retrier) *TransferReconciler {
	uc.tx.retrier = r
	return uc
}

func (uc *TransferReconciler) reconcileUnit(ctx context.Context, receipt *domain.InventoryReceipt, outcome *TransferOutcome, log zerolog.Logger) error {
	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		return uc.applyUnit(ctx, tx, receipt, outcome, log)
	})
	if err != nil {
		return err
	}

	if outcome.Case != domain.TransferCaseNone {
		log.Info().
			Str("serial", outcome.Serial).
			Str("case", string(outcome.Case)).
			Str("source_asset_id", outcome.SourceAssetID).
			Str("destination_asset_id", outcome.DestinationAssetID).
			Msg("transfer unit reconciled")
	}

	return nil
}

// applyUnit classifies one transferred unit and applies its case inside tx.
func (uc *TransferReconciler) applyUnit(ctx context.Context, tx Transaction, receipt *domain.InventoryReceipt, outcome *TransferOutcome, log zerolog.Logger) error {
	matches, err := uc.assets.ListActiveBySerialForUpdate(ctx, tx, outcome.Serial,
		[]string{receipt.LocationID, receipt.TransferLocationID})
	if err != nil {
		return err
	}

	outcome.SourceAssetID, outcome.DestinationAssetID = "", ""
	destination, source := pickLocations(matches, receipt.LocationID, receipt.TransferLocationID, log)
	outcome.Case = domain.ClassifyTransfer(destination, source, outcome.Quantity)
	if destination != nil {
		outcome.DestinationAssetID = destination.ID
	}
	if source != nil {
		outcome.SourceAssetID = source.ID
	}

	unitLog := log.With().
		Str("serial", outcome.Serial).
		Int64("quantity", outcome.Quantity).
		Str("case", string(outcome.Case)).
		Logger()

	if source != nil && outcome.Quantity > source.Quantity {
		unitLog.Warn().Int64("source_quantity", source.Quantity).Msg("transfer quantity exceeds source asset quantity")
	}

	now := uc.clock.Now()

	switch outcome.Case {
	case domain.TransferCaseNone:
		unitLog.Warn().Msg("no asset at either location, unit skipped")
		return nil

	case domain.TransferCaseSplit:
		split, err := uc.split(ctx, tx, receipt, outcome, source, now)
		if err != nil {
			return err
		}
		outcome.DestinationAssetID = split.ID

	case domain.TransferCaseRelocate:
		source.Relocate(receipt.LocationID)
		if err := uc.events.update(ctx, tx, uc.assets, source, domain.EventTypeAssetUpdated, CauseTransferReceipt, now); err != nil {
			return err
		}

	case domain.TransferCasePartialMerge:
		share, err := source.Withdraw(outcome.Quantity)
		if err != nil {
			return err
		}
		destination.Deposit(outcome.Quantity, share)

		if err := uc.events.update(ctx, tx, uc.assets, source, domain.EventTypeAssetUpdated, CauseTransferReceipt, now); err != nil {
			return err
		}
		if err := uc.events.update(ctx, tx, uc.assets, destination, domain.EventTypeAssetUpdated, CauseTransferReceipt, now); err != nil {
			return err
		}

	case domain.TransferCaseMerge:
		destination.Absorb(source)

		if err := uc.events.update(ctx, tx, uc.assets, destination, domain.EventTypeAssetUpdated, CauseTransferReceipt, now); err != nil {
			return err
		}
		if err := uc.events.update(ctx, tx, uc.assets, source, domain.EventTypeAssetDeactivated, CauseTransferReceipt, now); err != nil {
			return err
		}

	case domain.TransferCaseOrphanDestination:
		unitLog.Warn().Str("asset_id", destination.ID).Msg("no asset at source location, destination increased anyway, investigate")
		destination.Deposit(outcome.Quantity, domain.Values{})
		if err := uc.events.update(ctx, tx, uc.assets, destination, domain.EventTypeAssetUpdated, CauseTransferReceipt, now); err != nil {
			return err
		}
	}

	return nil
}

// split carves quantity off source into a new asset at the destination.
// The new asset keeps the source's profile and grandparent transaction.
func (uc *TransferReconciler) split(
	ctx context.Context,
	tx Transaction,
	receipt *domain.InventoryReceipt,
	outcome *TransferOutcome,
	source *domain.Asset,
	now time.Time,
) (*domain.Asset, error) {
	share, err := source.Withdraw(outcome.Quantity)
	if err != nil {
		return nil, err
	}

	split := &domain.Asset{
		ID:                       uc.events.idGen.Generate(),
		Name:                     source.Name,
		Description:              source.Description,
		Profile:                  source.Profile,
		SerialNumber:             source.SerialNumber,
		ItemID:                   source.ItemID,
		Quantity:                 outcome.Quantity,
		Values:                   share,
		LocationID:               receipt.LocationID,
		SubsidiaryID:             source.SubsidiaryID,
		CurrencyID:               source.CurrencyID,
		GrandparentTransactionID: source.GrandparentTransactionID,
		SourceTransactionID:      receipt.ID,
		SourceLine:               outcome.Line,
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	if err := uc.events.update(ctx, tx, uc.assets, source, domain.EventTypeAssetUpdated, CauseTransferReceipt, now); err != nil {
		return nil, err
	}

	if err := uc.events.create(ctx, tx, uc.assets, split, CauseTransferReceipt, now); err != nil {
		return nil, err
	}

	return split, nil
}

// pickLocations keeps the first active match at each location.
func pickLocations(matches []*domain.Asset, destinationID, sourceID string, log zerolog.Logger) (destination, source *domain.Asset) {
	for _, a := range matches {
		switch a.LocationID {
		case destinationID:
			if destination == nil {
				destination = a
				continue
			}
		case sourceID:
			if source == nil {
				source = a
				continue
			}
		default:
			continue
		}

		log.Warn().
			Str("asset_id", a.ID).
			Str("serial", a.SerialNumber).
			Str("location", a.LocationID).
			Msg("extra active asset for serial at location ignored")
	}

	return destination, source
}
