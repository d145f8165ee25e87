package usecase_test

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/assetsync/internal/domain"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func testConfig() *domain.AssetConfig {
	return &domain.AssetConfig{
		Description: "Generated from item receipt",
		Profiles: map[string]domain.DepreciationProfile{
			"1241": {AssetType: "103", Method: "3", Residual: decimal.Zero, LifetimeMonths: 48},
			"1244": {AssetType: "104", Method: "3", Residual: decimal.Zero, LifetimeMonths: 60},
		},
		Subsidiaries: map[string]domain.SubsidiaryCurrency{
			"7": {Currency: "6", RateCurrency: "10", PriceCurrency: "1"},
			"8": {Currency: "7", RateCurrency: "11", PriceCurrency: "1"},
			// 99 is allowed but has no currency mapping.
		},
		AllowedSubsidiaries: map[string]bool{"7": true, "8": true, "99": true},
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func serials(numbers ...string) []domain.InventoryAssignment {
	out := make([]domain.InventoryAssignment, len(numbers))
	for i, n := range numbers {
		out[i] = domain.InventoryAssignment{Number: n, Quantity: 1}
	}
	return out
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

var errTransient = errors.New("transient")

// countingRetrier reruns an operation up to max times while it fails with
// errTransient.
type countingRetrier struct {
	max   int
	calls int
}

func (r *countingRetrier) Retry(ctx context.Context, operation func() error) error {
	var err error
	for i := 0; i < r.max; i++ {
		r.calls++
		if err = operation(); !errors.Is(err, errTransient) {
			return err
		}
	}
	return err
}
