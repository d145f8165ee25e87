package domain

import "time"

// Event types
const (
	EventTypeAssetCreated     = "asset.created"
	EventTypeAssetUpdated     = "asset.updated"
	EventTypeAssetDeactivated = "asset.deactivated"
)

// AggregateTypeAsset is the aggregate type of asset events.
const AggregateTypeAsset = "asset"

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// AssetEventPayload captures the persisted asset fields downstream
// depreciation and reporting consume.
func AssetEventPayload(a *Asset, cause string) map[string]any {
	return map[string]any{
		"asset_id":                   a.ID,
		"serial_number":              a.SerialNumber,
		"item_id":                    a.ItemID,
		"quantity":                   a.Quantity,
		"cost":                       a.Values.Cost.String(),
		"current_cost":               a.Values.CurrentCost.String(),
		"book_value":                 a.Values.BookValue.String(),
		"location_id":                a.LocationID,
		"subsidiary_id":              a.SubsidiaryID,
		"currency_id":                a.CurrencyID,
		"grandparent_transaction_id": a.GrandparentTransactionID,
		"inactive":                   a.Inactive,
		"cause":                      cause,
	}
}
