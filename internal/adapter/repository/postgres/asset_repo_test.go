package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/assetsync/internal/domain"
	"github.com/iho/assetsync/internal/usecase"
)

var assetRowColumns = []string{
	"id", "name", "description", "asset_type", "method", "residual_value", "lifetime_months",
	"serial_number", "item_id", "quantity", "cost", "current_cost", "book_value", "location_id", "subsidiary_id",
	"currency_id", "grandparent_transaction_id", "source_transaction_id", "source_line", "is_inactive",
	"created_at", "updated_at",
}

var repoNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func addAssetRow(rows *pgxmock.Rows, id, serial, location string, qty int64, cost string) *pgxmock.Rows {
	c := decimalToNumeric(decimal.RequireFromString(cost))
	return rows.AddRow(
		id, "Laptop", "Generated from item receipt", "103", "3", decimalToNumeric(decimal.Zero), 48,
		serial, "item-A", qty, c, c, c, location, "7",
		"6", "R1", "R1", 0, false,
		repoNow, repoNow,
	)
}

func beginTx(t *testing.T, mock pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	mock.ExpectBegin()
	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	return tx
}

func TestAssetRepositoryCreate(t *testing.T) {
	mock := newMockPool(t)
	tx := beginTx(t, mock)

	mock.ExpectExec("INSERT INTO assets").
		WithArgs("a1", "Laptop", "desc", "103", "3", pgxmock.AnyArg(), 48,
			"SN1", "item-A", int64(1), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			"loc-1", "7", "6", "R1", "R1", 0, false, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewAssetRepository(mock)
	err := repo.Create(context.Background(), tx, &domain.Asset{
		ID:                       "a1",
		Name:                     "Laptop",
		Description:              "desc",
		Profile:                  domain.DepreciationProfile{AssetType: "103", Method: "3", LifetimeMonths: 48},
		SerialNumber:             "SN1",
		ItemID:                   "item-A",
		Quantity:                 1,
		Values:                   domain.UniformValues(decimal.NewFromInt(50)),
		LocationID:               "loc-1",
		SubsidiaryID:             "7",
		CurrencyID:               "6",
		GrandparentTransactionID: "R1",
		SourceTransactionID:      "R1",
		CreatedAt:                repoNow,
		UpdatedAt:                repoNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mock)
}

func TestAssetRepositoryUpdateNotFound(t *testing.T) {
	mock := newMockPool(t)
	tx := beginTx(t, mock)

	mock.ExpectExec("UPDATE assets SET").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewAssetRepository(mock)
	err := repo.Update(context.Background(), tx, &domain.Asset{ID: "missing", Quantity: 1})
	if !errors.Is(err, domain.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestAssetRepositoryGetByID(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectQuery("FROM assets WHERE id").
		WithArgs("a1").
		WillReturnRows(addAssetRow(pgxmock.NewRows(assetRowColumns), "a1", "SN1", "loc-1", 1, "50.25"))

	repo := NewAssetRepository(mock)
	a, err := repo.GetByID(context.Background(), "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.SerialNumber != "SN1" || a.Quantity != 1 || a.Profile.LifetimeMonths != 48 {
		t.Fatalf("unexpected asset: %+v", a)
	}

	if !a.Values.BookValue.Equal(decimal.RequireFromString("50.25")) {
		t.Fatalf("expected book value 50.25, got %s", a.Values.BookValue)
	}

	assertExpectations(t, mock)
}

func TestAssetRepositoryGetByIDNotFound(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectQuery("FROM assets WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(assetRowColumns))

	repo := NewAssetRepository(mock)
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestAssetRepositoryListActiveBySerialForUpdate(t *testing.T) {
	mock := newMockPool(t)
	tx := beginTx(t, mock)

	rows := pgxmock.NewRows(assetRowColumns)
	addAssetRow(rows, "a1", "SN1", "8", 8, "800")
	addAssetRow(rows, "a2", "SN1", "7", 2, "200")

	mock.ExpectQuery("WHERE serial_number = \\$1 AND location_id = ANY\\(\\$2\\) AND NOT is_inactive").
		WithArgs("SN1", []string{"7", "8"}).
		WillReturnRows(rows)

	repo := NewAssetRepository(mock)
	assets, err := repo.ListActiveBySerialForUpdate(context.Background(), tx, "SN1", []string{"7", "8"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(assets) != 2 || assets[0].LocationID != "8" || assets[1].Quantity != 2 {
		t.Fatalf("unexpected assets: %+v", assets)
	}

	assertExpectations(t, mock)
}

func TestAssetRepositoryListByGrandparent(t *testing.T) {
	mock := newMockPool(t)

	rows := pgxmock.NewRows(assetRowColumns)
	addAssetRow(rows, "a1", "SN1", "loc-1", 1, "50")

	mock.ExpectQuery("WHERE grandparent_transaction_id = \\$1").
		WithArgs("R1").
		WillReturnRows(rows)

	repo := NewAssetRepository(mock)
	assets, err := repo.ListByGrandparent(context.Background(), "R1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(assets) != 1 || assets[0].GrandparentTransactionID != "R1" {
		t.Fatalf("unexpected assets: %+v", assets)
	}
}
