package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/assetsync/internal/domain"
)

const getTransactionType = `SELECT type FROM transactions WHERE id = $1`

const listBillDatesByPurchaseOrder = `SELECT tran_date FROM vendor_bills
WHERE created_from = $1
ORDER BY tran_date DESC`

const findCurrencyRate = `SELECT exchange_rate FROM currency_rates
WHERE base_currency = $1 AND transaction_currency = $2 AND effective_date = $3`

// TransactionRepository implements usecase.TransactionLookup.
type TransactionRepository struct {
	db DBTX
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// GetType returns the type of the host transaction id.
func (r *TransactionRepository) GetType(ctx context.Context, id string) (domain.TransactionType, error) {
	var code string
	if err := r.db.QueryRow(ctx, getTransactionType, id).Scan(&code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrUnknownTransaction
		}

		return "", err
	}

	return domain.ParseTransactionType(code), nil
}

// BillRepository implements usecase.BillRepository.
type BillRepository struct {
	db DBTX
}

// NewBillRepository creates a new BillRepository.
func NewBillRepository(db DBTX) *BillRepository {
	return &BillRepository{db: db}
}

// ListDatesByPurchaseOrder returns the dates of vendor bills created from
// purchaseOrderID, most recent first.
func (r *BillRepository) ListDatesByPurchaseOrder(ctx context.Context, purchaseOrderID string) ([]time.Time, error) {
	rows, err := r.db.Query(ctx, listBillDatesByPurchaseOrder, purchaseOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d pgtype.Date
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		if d.Valid {
			dates = append(dates, d.Time)
		}
	}

	return dates, rows.Err()
}

// CurrencyRateRepository implements usecase.ExchangeRateRepository.
type CurrencyRateRepository struct {
	db DBTX
}

// NewCurrencyRateRepository creates a new CurrencyRateRepository.
func NewCurrencyRateRepository(db DBTX) *CurrencyRateRepository {
	return &CurrencyRateRepository{db: db}
}

// FindRate returns the rate effective exactly on date.
func (r *CurrencyRateRepository) FindRate(ctx context.Context, baseCurrency, transactionCurrency string, date time.Time) (decimal.Decimal, error) {
	var rate pgtype.Numeric

	err := r.db.QueryRow(ctx, findCurrencyRate, baseCurrency, transactionCurrency, timeToPgDate(date)).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrRateNotFound
		}

		return decimal.Zero, err
	}

	return numericToDecimal(rate), nil
}
