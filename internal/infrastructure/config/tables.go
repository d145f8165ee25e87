package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/iho/assetsync/internal/domain"
)

//go:embed asset_tables.yaml
var defaultAssetTables []byte

type assetTablesFile struct {
	Description         string                     `yaml:"description"          validate:"required"`
	Profiles            map[string]profileEntry    `yaml:"profiles"             validate:"required,min=1,dive,keys,required,endkeys"`
	Subsidiaries        map[string]subsidiaryEntry `yaml:"subsidiaries"         validate:"required,dive,keys,required,endkeys"`
	AllowedSubsidiaries []string                   `yaml:"allowed_subsidiaries" validate:"required,min=1,dive,required"`
}

type profileEntry struct {
	AssetType      string `yaml:"asset_type"      validate:"required"`
	Method         string `yaml:"method"          validate:"required"`
	Residual       string `yaml:"residual"        validate:"omitempty,numeric"`
	LifetimeMonths int    `yaml:"lifetime_months" validate:"gt=0"`
}

type subsidiaryEntry struct {
	Currency      string `yaml:"currency"       validate:"required"`
	RateCurrency  string `yaml:"rate_currency"  validate:"required"`
	PriceCurrency string `yaml:"price_currency" validate:"required"`
}

// LoadAssetTables reads the asset tables from path, or the built-in tables
// when path is empty.
func LoadAssetTables(path string) (*domain.AssetConfig, error) {
	data := defaultAssetTables

	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read asset tables: %w", err)
		}
	}

	return ParseAssetTables(data)
}

// ParseAssetTables decodes and validates YAML asset tables.
func ParseAssetTables(data []byte) (*domain.AssetConfig, error) {
	var file assetTablesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAssetConfig, err)
	}

	if err := validator.New().Struct(file); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAssetConfig, err)
	}

	cfg := &domain.AssetConfig{
		Description:         file.Description,
		Profiles:            make(map[string]domain.DepreciationProfile, len(file.Profiles)),
		Subsidiaries:        make(map[string]domain.SubsidiaryCurrency, len(file.Subsidiaries)),
		AllowedSubsidiaries: make(map[string]bool, len(file.AllowedSubsidiaries)),
	}

	for account, p := range file.Profiles {
		residual := decimal.Zero
		if p.Residual != "" {
			residual = decimal.RequireFromString(p.Residual)
		}

		cfg.Profiles[account] = domain.DepreciationProfile{
			AssetType:      p.AssetType,
			Method:         p.Method,
			Residual:       residual,
			LifetimeMonths: p.LifetimeMonths,
		}
	}

	for id, s := range file.Subsidiaries {
		cfg.Subsidiaries[id] = domain.SubsidiaryCurrency{
			Currency:      s.Currency,
			RateCurrency:  s.RateCurrency,
			PriceCurrency: s.PriceCurrency,
		}
	}

	for _, id := range file.AllowedSubsidiaries {
		cfg.AllowedSubsidiaries[id] = true
	}

	return cfg, nil
}
