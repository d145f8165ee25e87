package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the transaction a receipt was created from.
type TransactionType string

const (
	TransactionTypePurchaseOrder TransactionType = "purchase_order"
	TransactionTypeTransferOrder TransactionType = "transfer_order"
	TransactionTypeOther         TransactionType = "other"
)

// ParseTransactionType maps a host transaction type code to a TransactionType.
func ParseTransactionType(code string) TransactionType {
	switch code {
	case "PurchOrd", string(TransactionTypePurchaseOrder):
		return TransactionTypePurchaseOrder
	case "TrnfrOrd", string(TransactionTypeTransferOrder):
		return TransactionTypeTransferOrder
	default:
		return TransactionTypeOther
	}
}

// LandedCostSlots is the number of landed cost amount fields on a receipt.
const LandedCostSlots = 5

// LandedCosts are the landed cost amount fields of a receipt. An absent slot
// has Valid == false.
type LandedCosts [LandedCostSlots]decimal.NullDecimal

// Total sums the present slots. Absent slots count as zero.
func (lc LandedCosts) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range lc {
		if v.Valid {
			total = total.Add(v.Decimal)
		}
	}

	return total
}

// Equal reports whether every slot has the same presence and value. Values
// compare numerically rather than by their text, so an edit from "10" to
// "10.00" is not a change. A present zero still differs from an empty slot.
func (lc LandedCosts) Equal(o LandedCosts) bool {
	for i := range lc {
		if lc[i].Valid != o[i].Valid {
			return false
		}
		if lc[i].Valid && !lc[i].Decimal.Equal(o[i].Decimal) {
			return false
		}
	}

	return true
}

// Fingerprint renders the slots as a stable string, absent slots as "-".
func (lc LandedCosts) Fingerprint() string {
	parts := make([]string, len(lc))
	for i, v := range lc {
		if v.Valid {
			parts[i] = v.Decimal.String()
		} else {
			parts[i] = "-"
		}
	}

	return strings.Join(parts, "|")
}

// ParseLandedCosts builds LandedCosts from up to LandedCostSlots optional
// decimal strings. A nil entry is an absent slot.
func ParseLandedCosts(values []*string) (LandedCosts, error) {
	var lc LandedCosts
	if len(values) > LandedCostSlots {
		return lc, fmt.Errorf("%w: %d landed cost slots, at most %d", ErrInvalidLandedCost, len(values), LandedCostSlots)
	}

	for i, v := range values {
		if v == nil {
			continue
		}
		d, err := decimal.NewFromString(strings.TrimSpace(*v))
		if err != nil {
			return lc, fmt.Errorf("%w: slot %d: %v", ErrInvalidLandedCost, i+1, err)
		}
		lc[i] = decimal.NewNullDecimal(d)
	}

	return lc, nil
}

// InventoryAssignment is one serial or lot number assigned on a receipt line.
type InventoryAssignment struct {
	Number   string
	Quantity int64
}

// IsSerialized reports whether the assignment is a single serialized unit
// rather than a counted lot.
func (a InventoryAssignment) IsSerialized() bool {
	return a.Quantity <= 1
}

// ReceiptLine is one item line of an inventory receipt.
type ReceiptLine struct {
	Index       int
	ItemID      string
	Quantity    int64
	Assignments []InventoryAssignment
}

// InventoryReceipt is a host-owned item receipt. The core only reads it.
type InventoryReceipt struct {
	ID           string
	SubsidiaryID string
	// LocationID is where the goods were received.
	LocationID string
	// TransferLocationID is the location the goods left, for transfer receipts.
	TransferLocationID string
	CreatedFromID      string
	Lines              []ReceiptLine
	LandedCosts        LandedCosts
}

// Item holds the item fields the core reads from the host catalog.
type Item struct {
	ID                string
	DisplayName       string
	AssetAccount      string
	LastPurchasePrice decimal.Decimal
}

// ItemLineDetail correlates a receipt line with its purchase value.
type ItemLineDetail struct {
	ItemID    string
	Quantity  int64
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// NewItemLineDetail builds the detail for one line.
func NewItemLineDetail(itemID string, quantity int64, unitPrice decimal.Decimal) ItemLineDetail {
	return ItemLineDetail{
		ItemID:    itemID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     unitPrice.Mul(decimal.NewFromInt(quantity)),
	}
}
