package domain

import "github.com/shopspring/decimal"

// DepreciationProfile is the depreciation setup assigned to assets booked
// against one asset account.
type DepreciationProfile struct {
	AssetType      string
	Method         string
	Residual       decimal.Decimal
	LifetimeMonths int
}

// SubsidiaryCurrency maps a subsidiary to the currency recorded on its assets
// and to the currency pair used for exchange-rate lookups.
type SubsidiaryCurrency struct {
	// Currency is stored on the asset record.
	Currency string
	// RateCurrency is the base currency of the subsidiary's rate rows.
	RateCurrency  string
	PriceCurrency string
}

// AssetConfig holds the static tables that drive asset creation.
// It is loaded once and shared by pointer.
type AssetConfig struct {
	Description         string
	Profiles            map[string]DepreciationProfile
	Subsidiaries        map[string]SubsidiaryCurrency
	AllowedSubsidiaries map[string]bool
}

// Profile returns the depreciation profile configured for an asset account.
func (c *AssetConfig) Profile(account string) (DepreciationProfile, bool) {
	p, ok := c.Profiles[account]
	return p, ok
}

// Currency returns the currency mapping of a subsidiary.
func (c *AssetConfig) Currency(subsidiary string) (SubsidiaryCurrency, bool) {
	sc, ok := c.Subsidiaries[subsidiary]
	return sc, ok
}

// IsAllowed reports whether receipts of the subsidiary are processed at all.
func (c *AssetConfig) IsAllowed(subsidiary string) bool {
	return c.AllowedSubsidiaries[subsidiary]
}
