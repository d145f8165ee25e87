package domain

// TransferCase identifies which reconciliation branch applies to one unit
// moved by a transfer receipt.
type TransferCase string

const (
	// No asset at either location.
	TransferCaseNone TransferCase = "none"
	// Source only, part of its quantity moves: the source is reduced and a new
	// asset is created at the destination.
	TransferCaseSplit TransferCase = "split"
	// Source only, all of it moves: the source is relocated in place.
	TransferCaseRelocate TransferCase = "relocate"
	// Both present, part of the source moves into the destination.
	TransferCasePartialMerge TransferCase = "partial-merge"
	// Both present, all of the source merges into the destination.
	TransferCaseMerge TransferCase = "merge"
	// Destination only. Quantity is added without a source record.
	TransferCaseOrphanDestination TransferCase = "orphan-destination"
)

// ClassifyTransfer picks the branch for moving quantity units given the asset
// found at the destination and at the source. Either may be nil.
func ClassifyTransfer(destination, source *Asset, quantity int64) TransferCase {
	switch {
	case destination == nil && source == nil:
		return TransferCaseNone
	case destination == nil:
		if quantity < source.Quantity {
			return TransferCaseSplit
		}
		return TransferCaseRelocate
	case source == nil:
		return TransferCaseOrphanDestination
	default:
		if quantity < source.Quantity {
			return TransferCasePartialMerge
		}
		return TransferCaseMerge
	}
}
