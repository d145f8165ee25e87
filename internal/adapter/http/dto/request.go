package dto

import (
	"github.com/iho/assetsync/internal/domain"
)

// ReceiptUpdatedRequest carries the landed cost amounts a receipt had before
// the update. Omitted or null slots were empty.
type ReceiptUpdatedRequest struct {
	PreviousLandedCosts []*string `json:"previous_landed_costs" validate:"max=5,dive,omitempty,numeric"`
}

// LandedCosts converts the request to domain landed costs.
func (r *ReceiptUpdatedRequest) LandedCosts() (domain.LandedCosts, error) {
	return domain.ParseLandedCosts(r.PreviousLandedCosts)
}
