package domain

import (
	"github.com/shopspring/decimal"
)

// ComputeValue returns unitPrice * quantity * rate.
func ComputeValue(unitPrice decimal.Decimal, quantity int64, rate decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity)).Mul(rate)
}

// ProportionalShare returns (part / whole) * total.
func ProportionalShare(total, part, whole decimal.Decimal) (decimal.Decimal, error) {
	if whole.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}

	return part.Div(whole).Mul(total), nil
}

// Values holds the three independently tracked monetary amounts of an asset.
type Values struct {
	Cost        decimal.Decimal
	CurrentCost decimal.Decimal
	BookValue   decimal.Decimal
}

// UniformValues returns Values with all three amounts set to v.
func UniformValues(v decimal.Decimal) Values {
	return Values{Cost: v, CurrentCost: v, BookValue: v}
}

// Add returns v + o, field by field.
func (v Values) Add(o Values) Values {
	return Values{
		Cost:        v.Cost.Add(o.Cost),
		CurrentCost: v.CurrentCost.Add(o.CurrentCost),
		BookValue:   v.BookValue.Add(o.BookValue),
	}
}

// Sub returns v - o, field by field.
func (v Values) Sub(o Values) Values {
	return Values{
		Cost:        v.Cost.Sub(o.Cost),
		CurrentCost: v.CurrentCost.Sub(o.CurrentCost),
		BookValue:   v.BookValue.Sub(o.BookValue),
	}
}

// IsNegative reports whether any of the amounts is below zero.
func (v Values) IsNegative() bool {
	return v.Cost.IsNegative() || v.CurrentCost.IsNegative() || v.BookValue.IsNegative()
}

// Equal reports whether all three amounts are equal.
func (v Values) Equal(o Values) bool {
	return v.Cost.Equal(o.Cost) && v.CurrentCost.Equal(o.CurrentCost) && v.BookValue.Equal(o.BookValue)
}

// Share returns the portion of v carried by quantity units out of sourceQuantity,
// computed per field as (field / sourceQuantity) * quantity.
// sourceQuantity is the quantity before the movement is applied.
func (v Values) Share(sourceQuantity, quantity int64) (Values, error) {
	if sourceQuantity == 0 {
		return Values{}, ErrDivisionByZero
	}

	src := decimal.NewFromInt(sourceQuantity)
	qty := decimal.NewFromInt(quantity)

	return Values{
		Cost:        v.Cost.Div(src).Mul(qty),
		CurrentCost: v.CurrentCost.Div(src).Mul(qty),
		BookValue:   v.BookValue.Div(src).Mul(qty),
	}, nil
}
