package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAsset_Validate(t *testing.T) {
	tests := []struct {
		name        string
		asset       Asset
		expectError error
	}{
		{
			name:  "active with stock",
			asset: Asset{Quantity: 1, Values: UniformValues(d("10"))},
		},
		{
			name:        "negative quantity",
			asset:       Asset{Quantity: -1},
			expectError: ErrInvalidQuantity,
		},
		{
			name:        "negative book value",
			asset:       Asset{Quantity: 1, Values: Values{Cost: d("1"), CurrentCost: d("1"), BookValue: d("-0.01")}},
			expectError: ErrNegativeValue,
		},
		{
			name:        "active at zero quantity",
			asset:       Asset{Quantity: 0},
			expectError: ErrDepletedActiveAsset,
		},
		{
			name:  "inactive at zero quantity",
			asset: Asset{Quantity: 0, Inactive: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.asset.Validate()
			if err != tt.expectError {
				t.Errorf("expected %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestAsset_Withdraw(t *testing.T) {
	a := &Asset{Quantity: 8, Values: Values{Cost: d("800"), CurrentCost: d("720"), BookValue: d("640")}}

	share, err := a.Withdraw(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !share.Equal(Values{Cost: d("500"), CurrentCost: d("450"), BookValue: d("400")}) {
		t.Errorf("unexpected share %+v", share)
	}

	if a.Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", a.Quantity)
	}

	if !a.Values.Add(share).Equal(Values{Cost: d("800"), CurrentCost: d("720"), BookValue: d("640")}) {
		t.Error("withdrawn share and remainder must add back to the original")
	}

	if _, err := a.Withdraw(0); err != ErrInvalidQuantity {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestAsset_WithdrawFromEmpty(t *testing.T) {
	a := &Asset{Quantity: 0}

	if _, err := a.Withdraw(1); err != ErrDivisionByZero {
		t.Errorf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestAsset_Absorb(t *testing.T) {
	dst := &Asset{Quantity: 2, Values: UniformValues(d("100"))}
	src := &Asset{Quantity: 8, Values: UniformValues(d("800"))}

	dst.Absorb(src)

	if dst.Quantity != 10 || !dst.Values.Equal(UniformValues(d("900"))) {
		t.Errorf("unexpected merged asset: quantity %d values %+v", dst.Quantity, dst.Values)
	}

	if !src.Inactive {
		t.Error("source must be inactive after merge")
	}

	if src.Quantity != 8 || !src.Values.Cost.Equal(d("800")) {
		t.Error("source values must be left as they were")
	}
}

func TestAsset_AddLandedCost(t *testing.T) {
	a := &Asset{Quantity: 1, Values: UniformValues(d("60"))}

	a.AddLandedCost(d("30"))

	if !a.Values.Cost.Equal(d("90")) || !a.Values.CurrentCost.Equal(d("90")) {
		t.Errorf("cost and current cost must grow, got %+v", a.Values)
	}

	if !a.Values.BookValue.Equal(d("60")) {
		t.Errorf("book value must not change, got %s", a.Values.BookValue)
	}
}
