package usecase

import (
	"context"

	"github.com/iho/assetsync/internal/domain"
)

// AssetQueryUseCase serves read access to asset records.
type AssetQueryUseCase struct {
	assets AssetRepository
}

// NewAssetQueryUseCase creates a new AssetQueryUseCase.
func NewAssetQueryUseCase(assets AssetRepository) *AssetQueryUseCase {
	return &AssetQueryUseCase{assets: assets}
}

// GetAsset retrieves an asset by ID.
func (uc *AssetQueryUseCase) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	return uc.assets.GetByID(ctx, id)
}

// ListByReceipt lists every asset whose grandparent transaction is receiptID,
// including inactive ones.
func (uc *AssetQueryUseCase) ListByReceipt(ctx context.Context, receiptID string) ([]*domain.Asset, error) {
	return uc.assets.ListByGrandparent(ctx, receiptID)
}
