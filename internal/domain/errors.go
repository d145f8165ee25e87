package domain

import "errors"

var (
	// Asset errors
	ErrAssetNotFound       = errors.New("asset not found")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrNegativeValue       = errors.New("asset value cannot be negative")
	ErrDepletedActiveAsset = errors.New("active asset cannot have zero quantity")

	// Receipt errors
	ErrReceiptNotFound    = errors.New("item receipt not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrUnknownTransaction = errors.New("originating transaction not found")
	ErrSameLocation       = errors.New("transfer source and destination are the same location")
	ErrMissingLocation    = errors.New("transfer receipt has no source or destination location")
	ErrInvalidLandedCost  = errors.New("invalid landed cost amount")

	// Valuation errors
	ErrRateNotFound       = errors.New("exchange rate not found for the given date")
	ErrCurrencyNotMapped  = errors.New("subsidiary has no currency mapping")
	ErrDivisionByZero     = errors.New("division by zero in allocation")
	ErrZeroPurchasePrice  = errors.New("total purchase price is zero, landed cost cannot be allocated")
	ErrInvalidAssetConfig = errors.New("invalid asset configuration")
)
