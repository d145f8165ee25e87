package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset is a tracked fixed-asset record for one serialized unit or one lot of
// received inventory.
type Asset struct {
	ID          string
	Name        string
	Description string
	// Profile is copied once at creation and never changes afterwards.
	Profile      DepreciationProfile
	SerialNumber string
	ItemID       string
	Quantity     int64
	Values       Values
	LocationID   string
	SubsidiaryID string
	CurrencyID   string
	// GrandparentTransactionID is the receipt that first created the asset.
	// It survives transfers and splits.
	GrandparentTransactionID string
	SourceTransactionID      string
	SourceLine               int
	Inactive                 bool
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// Validate checks the asset invariants that must hold on every save.
func (a *Asset) Validate() error {
	if a.Quantity < 0 {
		return ErrInvalidQuantity
	}

	if a.Values.IsNegative() {
		return ErrNegativeValue
	}

	if !a.Inactive && a.Quantity == 0 {
		return ErrDepletedActiveAsset
	}

	return nil
}

// Relocate moves the whole asset to location without touching its values.
func (a *Asset) Relocate(location string) {
	a.LocationID = location
}

// Withdraw removes quantity units from the asset together with their
// proportional share of cost, current cost and book value, and returns the share.
func (a *Asset) Withdraw(quantity int64) (Values, error) {
	if quantity <= 0 {
		return Values{}, ErrInvalidQuantity
	}

	share, err := a.Values.Share(a.Quantity, quantity)
	if err != nil {
		return Values{}, err
	}

	a.Quantity -= quantity
	a.Values = a.Values.Sub(share)

	return share, nil
}

// Deposit adds quantity units carrying the given values.
func (a *Asset) Deposit(quantity int64, values Values) {
	a.Quantity += quantity
	a.Values = a.Values.Add(values)
}

// Absorb merges src into a: quantities and all three values are summed and src
// is deactivated. The values left on src are not zeroed.
func (a *Asset) Absorb(src *Asset) {
	a.Quantity += src.Quantity
	a.Values = a.Values.Add(src.Values)
	src.Inactive = true
}

// AddLandedCost adds portion to cost and current cost. Book value is unchanged.
func (a *Asset) AddLandedCost(portion decimal.Decimal) {
	a.Values.Cost = a.Values.Cost.Add(portion)
	a.Values.CurrentCost = a.Values.CurrentCost.Add(portion)
}
