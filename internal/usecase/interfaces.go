package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/assetsync/internal/domain"
)

// ReceiptRepository loads host item receipts.
type ReceiptRepository interface {
	GetByID(ctx context.Context, id string) (*domain.InventoryReceipt, error)
}

// ItemCatalog reads item fields from the host catalog.
type ItemCatalog interface {
	GetItem(ctx context.Context, id string) (*domain.Item, error)
}

// AssetRepository defines data access for asset records.
type AssetRepository interface {
	Create(ctx context.Context, tx Transaction, asset *domain.Asset) error
	Update(ctx context.Context, tx Transaction, asset *domain.Asset) error
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	ListByGrandparent(ctx context.Context, receiptID string) ([]*domain.Asset, error)
	ListByGrandparentForUpdate(ctx context.Context, tx Transaction, receiptID string) ([]*domain.Asset, error)
	// ListActiveBySerialForUpdate returns active assets carrying serial at any
	// of locations, locked for the rest of tx.
	ListActiveBySerialForUpdate(ctx context.Context, tx Transaction, serial string, locations []string) ([]*domain.Asset, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// ErrCacheMiss is returned by Cache.Get for absent keys.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyProcessing is the value a claimed key holds until its work
// completes.
const IdempotencyProcessing = "processing"

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so a later delivery can retry the work.
	Release(ctx context.Context, key string) error
}

// Retrier reruns an operation while it fails with a transient error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}
