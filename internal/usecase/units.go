package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/assetsync/internal/domain"
)

// ErrUnitInProgress is returned for a unit whose key is claimed by a delivery
// that has not finished yet.
var ErrUnitInProgress = errors.New("unit is being processed by another delivery")

// UnitFailure records an inventory unit that could not be processed. Its
// siblings on the same receipt are unaffected.
type UnitFailure struct {
	Line       int
	Assignment int
	Serial     string
	Err        error
}

func (f UnitFailure) Error() string {
	return fmt.Sprintf("line %d assignment %d (%s): %v", f.Line, f.Assignment, f.Serial, f.Err)
}

func (f UnitFailure) Unwrap() error {
	return f.Err
}

func joinFailures(failures []UnitFailure) error {
	if len(failures) == 0 {
		return nil
	}

	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}

	return errors.Join(errs...)
}

func unitKey(prefix, receiptID string, line, assignment int, serial string) string {
	return strings.Join([]string{prefix, receiptID, strconv.Itoa(line), strconv.Itoa(assignment), serial}, ":")
}

// idempotencyGuard claims keys in an optional IdempotencyStore. With no
// store every claim succeeds and redelivered events are applied again.
// Claims expire after IdempotencyClaimTTL and completed keys after ttl.
type idempotencyGuard struct {
	store  IdempotencyStore
	ttl    time.Duration
	logger zerolog.Logger
}

func newIdempotencyGuard(store IdempotencyStore, logger zerolog.Logger) idempotencyGuard {
	return idempotencyGuard{store: store, ttl: IdempotencyKeyTTL, logger: logger}
}

// claim reports false when an earlier delivery already completed the key. A
// key still held by an unfinished delivery yields ErrUnitInProgress so the
// event is retried instead of being counted as a duplicate.
func (g idempotencyGuard) claim(ctx context.Context, key string) (bool, error) {
	if g.store == nil {
		return true, nil
	}

	exists, value, err := g.store.CheckAndSet(ctx, key, nil, IdempotencyClaimTTL)
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", key, err)
	}
	if !exists {
		return true, nil
	}

	if len(value) == 0 || string(value) == IdempotencyProcessing {
		return false, fmt.Errorf("claim %s: %w", key, ErrUnitInProgress)
	}

	return false, nil
}

// complete and release settle the key even when ctx was cancelled mid-unit.
func (g idempotencyGuard) complete(ctx context.Context, key, value string) {
	if g.store == nil {
		return
	}

	if err := g.store.Update(context.WithoutCancel(ctx), key, []byte(value), g.ttl); err != nil {
		g.logger.Warn().Err(err).Str("key", key).Msg("failed to finalize idempotency key")
	}
}

func (g idempotencyGuard) release(ctx context.Context, key string) {
	if g.store == nil {
		return
	}

	if err := g.store.Release(context.WithoutCancel(ctx), key); err != nil {
		g.logger.Warn().Err(err).Str("key", key).Msg("failed to release idempotency key")
	}
}

// assetEvents writes asset change events to the outbox inside the caller's
// transaction.
type assetEvents struct {
	outbox OutboxRepository
	idGen  IDGenerator
}

func (e assetEvents) record(ctx context.Context, tx Transaction, eventType string, asset *domain.Asset, cause string, now time.Time) error {
	event := &domain.OutboxEvent{
		ID:            e.idGen.Generate(),
		AggregateID:   asset.ID,
		AggregateType: domain.AggregateTypeAsset,
		EventType:     eventType,
		Payload:       domain.AssetEventPayload(asset, cause),
		CreatedAt:     now,
		Published:     false,
	}

	return e.outbox.Create(ctx, tx, event)
}

// update validates and saves asset, then records eventType for it.
func (e assetEvents) update(ctx context.Context, tx Transaction, assets AssetRepository, asset *domain.Asset, eventType, cause string, now time.Time) error {
	asset.UpdatedAt = now

	if err := asset.Validate(); err != nil {
		return fmt.Errorf("asset %s: %w", asset.ID, err)
	}

	if err := assets.Update(ctx, tx, asset); err != nil {
		return err
	}

	return e.record(ctx, tx, eventType, asset, cause, now)
}

// create validates and inserts asset, then records an asset.created event.
func (e assetEvents) create(ctx context.Context, tx Transaction, assets AssetRepository, asset *domain.Asset, cause string, now time.Time) error {
	if err := asset.Validate(); err != nil {
		return fmt.Errorf("asset %s: %w", asset.ID, err)
	}

	if err := assets.Create(ctx, tx, asset); err != nil {
		return err
	}

	return e.record(ctx, tx, domain.EventTypeAssetCreated, asset, cause, now)
}

// txRunner runs work in its own transaction, bounded by
// DefaultTransactionTimeout. With a retrier the whole
// transaction is rerun on transient failures, so fn must reload what it
// mutates.
type txRunner struct {
	txManager TransactionManager
	retrier   Retrier
}

func (r txRunner) run(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error {
	attempt := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := r.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer tx.Rollback(txCtx)

		if err := fn(txCtx, tx); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	}

	if r.retrier == nil {
		return attempt()
	}

	return r.retrier.Retry(ctx, attempt)
}
