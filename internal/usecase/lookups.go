package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/assetsync/internal/domain"
)

//go:generate mockgen -source=lookups.go -destination=mocks/mock_lookups.go -package=mocks

// TransactionLookup resolves the type of a host transaction.
type TransactionLookup interface {
	GetType(ctx context.Context, id string) (domain.TransactionType, error)
}

// BillRepository finds vendor bills created from a purchase order.
type BillRepository interface {
	// ListDatesByPurchaseOrder returns bill dates, most recent first.
	ListDatesByPurchaseOrder(ctx context.Context, purchaseOrderID string) ([]time.Time, error)
}

// ExchangeRateRepository looks up currency rates effective on an exact date.
type ExchangeRateRepository interface {
	// FindRate returns domain.ErrRateNotFound when no row matches date.
	FindRate(ctx context.Context, baseCurrency, transactionCurrency string, date time.Time) (decimal.Decimal, error)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// RateResolver resolves the exchange rate used to value a receipt's assets.
type RateResolver interface {
	Resolve(ctx context.Context, subsidiary string, receipt *domain.InventoryReceipt) (decimal.Decimal, time.Time, error)
}

// PurchaseAssetCreator creates assets for purchase receipts.
type PurchaseAssetCreator interface {
	CreateFromPurchase(ctx context.Context, receipt *domain.InventoryReceipt) (*CreationResult, error)
}

// TransferProcessor reconciles assets for transfer receipts.
type TransferProcessor interface {
	Reconcile(ctx context.Context, receipt *domain.InventoryReceipt) (*TransferResult, error)
}

// LandedCostProcessor allocates landed cost for an edited receipt.
type LandedCostProcessor interface {
	Allocate(ctx context.Context, receiptID string) (*AllocationResult, error)
}
