package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/assetsync/internal/domain"
)

// ExchangeRateResolver picks the as-of date for a receipt and looks up the
// rate effective on exactly that date.
type ExchangeRateResolver struct {
	config       *domain.AssetConfig
	transactions TransactionLookup
	bills        BillRepository
	rates        ExchangeRateRepository
	clock        Clock
	logger       zerolog.Logger
}

// NewExchangeRateResolver creates a new ExchangeRateResolver.
func NewExchangeRateResolver(
	config *domain.AssetConfig,
	transactions TransactionLookup,
	bills BillRepository,
	rates ExchangeRateRepository,
	clock Clock,
	logger zerolog.Logger,
) *ExchangeRateResolver {
	return &ExchangeRateResolver{
		config:       config,
		transactions: transactions,
		bills:        bills,
		rates:        rates,
		clock:        clock,
		logger:       logger,
	}
}

// Resolve returns the rate for valuing assets of receipt in subsidiary and
// the date it was looked up for.
func (r *ExchangeRateResolver) Resolve(ctx context.Context, subsidiary string, receipt *domain.InventoryReceipt) (decimal.Decimal, time.Time, error) {
	currency, ok := r.config.Currency(subsidiary)
	if !ok {
		return decimal.Zero, time.Time{}, fmt.Errorf("subsidiary %s: %w", subsidiary, domain.ErrCurrencyNotMapped)
	}

	asOf, err := r.asOfDate(ctx, receipt)
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}

	rate, err := r.rates.FindRate(ctx, currency.RateCurrency, currency.PriceCurrency, asOf)
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("rate %s/%s on %s: %w",
			currency.RateCurrency, currency.PriceCurrency, asOf.Format(time.DateOnly), err)
	}

	r.logger.Debug().
		Str("receipt_id", receipt.ID).
		Str("subsidiary_id", subsidiary).
		Str("as_of", asOf.Format(time.DateOnly)).
		Str("rate", rate.String()).
		Msg("exchange rate resolved")

	return rate, asOf, nil
}

// asOfDate is today unless the receipt came from a purchase order that has
// been billed, in which case the most recent bill date wins.
func (r *ExchangeRateResolver) asOfDate(ctx context.Context, receipt *domain.InventoryReceipt) (time.Time, error) {
	asOf := calendarDate(r.clock.Now())

	if receipt.CreatedFromID == "" {
		return asOf, nil
	}

	txType, err := r.transactions.GetType(ctx, receipt.CreatedFromID)
	if err != nil {
		return time.Time{}, fmt.Errorf("lookup transaction %s: %w", receipt.CreatedFromID, err)
	}

	if txType != domain.TransactionTypePurchaseOrder {
		return asOf, nil
	}

	dates, err := r.bills.ListDatesByPurchaseOrder(ctx, receipt.CreatedFromID)
	if err != nil {
		return time.Time{}, fmt.Errorf("list bills for %s: %w", receipt.CreatedFromID, err)
	}

	if len(dates) > 0 {
		asOf = calendarDate(dates[0])
	}

	return asOf, nil
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
