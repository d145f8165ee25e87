package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/assetsync/internal/domain"
	"github.com/iho/assetsync/internal/usecase"
)

const assetColumns = `id, name, description, asset_type, method, residual_value, lifetime_months,
serial_number, item_id, quantity, cost, current_cost, book_value, location_id, subsidiary_id,
currency_id, grandparent_transaction_id, source_transaction_id, source_line, is_inactive,
created_at, updated_at`

const createAsset = `INSERT INTO assets (` + assetColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`

const updateAsset = `UPDATE assets SET
quantity = $2, cost = $3, current_cost = $4, book_value = $5, location_id = $6,
is_inactive = $7, updated_at = $8
WHERE id = $1`

const getAssetByID = `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

const listAssetsByGrandparent = `SELECT ` + assetColumns + ` FROM assets
WHERE grandparent_transaction_id = $1
ORDER BY created_at, id`

const listAssetsByGrandparentForUpdate = listAssetsByGrandparent + `
FOR UPDATE`

const listActiveAssetsBySerialForUpdate = `SELECT ` + assetColumns + ` FROM assets
WHERE serial_number = $1 AND location_id = ANY($2) AND NOT is_inactive
ORDER BY created_at, id
FOR UPDATE`

// AssetRepository implements usecase.AssetRepository.
type AssetRepository struct {
	db DBTX
}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(db DBTX) *AssetRepository {
	return &AssetRepository{db: db}
}

// Create inserts a new asset within a transaction.
func (r *AssetRepository) Create(ctx context.Context, tx usecase.Transaction, a *domain.Asset) error {
	_, err := txQuerier(tx).Exec(ctx, createAsset,
		a.ID,
		a.Name,
		a.Description,
		a.Profile.AssetType,
		a.Profile.Method,
		decimalToNumeric(a.Profile.Residual),
		a.Profile.LifetimeMonths,
		a.SerialNumber,
		a.ItemID,
		a.Quantity,
		decimalToNumeric(a.Values.Cost),
		decimalToNumeric(a.Values.CurrentCost),
		decimalToNumeric(a.Values.BookValue),
		a.LocationID,
		a.SubsidiaryID,
		a.CurrencyID,
		a.GrandparentTransactionID,
		a.SourceTransactionID,
		a.SourceLine,
		a.Inactive,
		timeToPgTimestamptz(a.CreatedAt),
		timeToPgTimestamptz(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert asset %s: %w", a.ID, err)
	}

	return nil
}

// Update saves the mutable fields of an asset within a transaction.
func (r *AssetRepository) Update(ctx context.Context, tx usecase.Transaction, a *domain.Asset) error {
	tag, err := txQuerier(tx).Exec(ctx, updateAsset,
		a.ID,
		a.Quantity,
		decimalToNumeric(a.Values.Cost),
		decimalToNumeric(a.Values.CurrentCost),
		decimalToNumeric(a.Values.BookValue),
		a.LocationID,
		a.Inactive,
		timeToPgTimestamptz(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("update asset %s: %w", a.ID, err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAssetNotFound
	}

	return nil
}

// GetByID retrieves an asset by ID.
func (r *AssetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	a, err := scanAsset(r.db.QueryRow(ctx, getAssetByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}

		return nil, err
	}

	return a, nil
}

// ListByGrandparent returns every asset created from receiptID, including
// inactive ones.
func (r *AssetRepository) ListByGrandparent(ctx context.Context, receiptID string) ([]*domain.Asset, error) {
	return queryAssets(ctx, r.db, listAssetsByGrandparent, receiptID)
}

// ListByGrandparentForUpdate is ListByGrandparent with the rows locked for tx.
func (r *AssetRepository) ListByGrandparentForUpdate(ctx context.Context, tx usecase.Transaction, receiptID string) ([]*domain.Asset, error) {
	return queryAssets(ctx, txQuerier(tx), listAssetsByGrandparentForUpdate, receiptID)
}

// ListActiveBySerialForUpdate returns active assets carrying serial at any of
// locations, locked for tx.
func (r *AssetRepository) ListActiveBySerialForUpdate(ctx context.Context, tx usecase.Transaction, serial string, locations []string) ([]*domain.Asset, error) {
	return queryAssets(ctx, txQuerier(tx), listActiveAssetsBySerialForUpdate, serial, locations)
}

func queryAssets(ctx context.Context, db DBTX, query string, args ...any) ([]*domain.Asset, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*domain.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}

	return assets, rows.Err()
}

func scanAsset(row pgx.Row) (*domain.Asset, error) {
	var (
		a                             domain.Asset
		residual, cost, current, book pgtype.Numeric
		createdAt, updatedAt          time.Time
	)

	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Description,
		&a.Profile.AssetType,
		&a.Profile.Method,
		&residual,
		&a.Profile.LifetimeMonths,
		&a.SerialNumber,
		&a.ItemID,
		&a.Quantity,
		&cost,
		&current,
		&book,
		&a.LocationID,
		&a.SubsidiaryID,
		&a.CurrencyID,
		&a.GrandparentTransactionID,
		&a.SourceTransactionID,
		&a.SourceLine,
		&a.Inactive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Profile.Residual = numericToDecimal(residual)
	a.Values = domain.Values{
		Cost:        numericToDecimal(cost),
		CurrentCost: numericToDecimal(current),
		BookValue:   numericToDecimal(book),
	}
	a.CreatedAt = createdAt
	a.UpdatedAt = updatedAt

	return &a, nil
}
