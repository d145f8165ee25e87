package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/assetsync/internal/domain"
)

const getReceiptByID = `SELECT id, subsidiary_id, location_id, transfer_location_id, created_from,
landed_cost_1, landed_cost_2, landed_cost_3, landed_cost_4, landed_cost_5
FROM item_receipts WHERE id = $1`

const listReceiptLines = `SELECT line_index, item_id, quantity
FROM item_receipt_lines WHERE receipt_id = $1
ORDER BY line_index`

const listReceiptAssignments = `SELECT line_index, number, quantity
FROM item_receipt_assignments WHERE receipt_id = $1
ORDER BY line_index, assignment_index`

// ReceiptRepository implements usecase.ReceiptRepository over the host
// receipt replica tables.
type ReceiptRepository struct {
	db DBTX
}

// NewReceiptRepository creates a new ReceiptRepository.
func NewReceiptRepository(db DBTX) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

// GetByID loads a receipt with its lines and inventory assignments.
func (r *ReceiptRepository) GetByID(ctx context.Context, id string) (*domain.InventoryReceipt, error) {
	var (
		receipt domain.InventoryReceipt
		landed  [domain.LandedCostSlots]pgtype.Numeric
	)

	err := r.db.QueryRow(ctx, getReceiptByID, id).Scan(
		&receipt.ID,
		&receipt.SubsidiaryID,
		&receipt.LocationID,
		&receipt.TransferLocationID,
		&receipt.CreatedFromID,
		&landed[0],
		&landed[1],
		&landed[2],
		&landed[3],
		&landed[4],
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReceiptNotFound
		}

		return nil, err
	}

	for i, n := range landed {
		receipt.LandedCosts[i] = numericToNullDecimal(n)
	}

	lines, err := r.lines(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("receipt %s lines: %w", id, err)
	}
	receipt.Lines = lines

	return &receipt, nil
}

func (r *ReceiptRepository) lines(ctx context.Context, id string) ([]domain.ReceiptLine, error) {
	rows, err := r.db.Query(ctx, listReceiptLines, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.ReceiptLine
	byIndex := make(map[int]int)

	for rows.Next() {
		var line domain.ReceiptLine
		if err := rows.Scan(&line.Index, &line.ItemID, &line.Quantity); err != nil {
			return nil, err
		}
		byIndex[line.Index] = len(lines)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	arows, err := r.db.Query(ctx, listReceiptAssignments, id)
	if err != nil {
		return nil, err
	}
	defer arows.Close()

	for arows.Next() {
		var (
			lineIndex  int
			assignment domain.InventoryAssignment
		)
		if err := arows.Scan(&lineIndex, &assignment.Number, &assignment.Quantity); err != nil {
			return nil, err
		}

		pos, ok := byIndex[lineIndex]
		if !ok {
			continue
		}
		lines[pos].Assignments = append(lines[pos].Assignments, assignment)
	}

	return lines, arows.Err()
}
