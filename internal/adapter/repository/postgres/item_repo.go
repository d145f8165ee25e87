package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/assetsync/internal/domain"
)

const getItemByID = `SELECT id, display_name, asset_account, last_purchase_price FROM items WHERE id = $1`

// ItemRepository implements usecase.ItemCatalog.
type ItemRepository struct {
	db DBTX
}

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(db DBTX) *ItemRepository {
	return &ItemRepository{db: db}
}

// GetItem retrieves an item by ID.
func (r *ItemRepository) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	var (
		item  domain.Item
		price pgtype.Numeric
	)

	err := r.db.QueryRow(ctx, getItemByID, id).Scan(&item.ID, &item.DisplayName, &item.AssetAccount, &price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}

		return nil, err
	}

	item.LastPurchasePrice = numericToDecimal(price)

	return &item, nil
}
