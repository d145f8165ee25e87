package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CloudEvents attributes used on both topics.
const (
	SpecVersion     = "1.0"
	ContentTypeJSON = "application/json"
	AssetSource     = "/assetsync"

	// Receipt events consumed from the host system.
	TypeReceiptCreated = "erp.item-receipt.created"
	TypeReceiptUpdated = "erp.item-receipt.updated"

	assetTypePrefix = "erp."
)

// eventNamespace derives stable CloudEvent ids from outbox event ids so a
// redelivered outbox row keeps its id.
var eventNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/iho/assetsync/events"))

// CloudEvent is the structured-mode JSON envelope.
type CloudEvent struct {
	SpecVersion     string          `json:"specversion"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Subject         string          `json:"subject,omitempty"`
	ID              string          `json:"id"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype,omitempty"`
	Data            json.RawMessage `json:"data,omitempty"`
}

// receiptEventData is the payload of receipt events.
type receiptEventData struct {
	ReceiptID           string    `json:"receiptId"`
	PreviousLandedCosts []*string `json:"previousLandedCosts,omitempty"`
}

func eventID(outboxID string) string {
	return uuid.NewSHA1(eventNamespace, []byte(outboxID)).String()
}
