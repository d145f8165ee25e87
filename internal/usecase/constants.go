package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 7 * 24 * time.Hour

	// IdempotencyClaimTTL bounds how long an unfinished claim blocks
	// redeliveries, so work lost to a crash becomes claimable again.
	IdempotencyClaimTTL = 5 * time.Minute
)

// Idempotency key prefixes, one per mutating operation.
const (
	keyPrefixCreate     = "create"
	keyPrefixTransfer   = "transfer"
	keyPrefixLandedCost = "landed-cost"
)

// Outcome causes recorded on asset events.
const (
	CausePurchaseReceipt = "purchase_receipt"
	CauseTransferReceipt = "transfer_receipt"
	CauseLandedCost      = "landed_cost"
)
