package dto

import (
	"time"

	"github.com/iho/assetsync/internal/domain"
	"github.com/iho/assetsync/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// AssetResponse represents an asset in API responses.
type AssetResponse struct {
	ID                       string    `json:"id"`
	Name                     string    `json:"name"`
	Description              string    `json:"description"`
	AssetType                string    `json:"asset_type"`
	DepreciationMethod       string    `json:"depreciation_method"`
	ResidualValue            string    `json:"residual_value"`
	LifetimeMonths           int       `json:"lifetime_months"`
	SerialNumber             string    `json:"serial_number"`
	ItemID                   string    `json:"item_id"`
	Quantity                 int64     `json:"quantity"`
	Cost                     string    `json:"cost"`
	CurrentCost              string    `json:"current_cost"`
	BookValue                string    `json:"book_value"`
	LocationID               string    `json:"location_id"`
	SubsidiaryID             string    `json:"subsidiary_id"`
	CurrencyID               string    `json:"currency_id"`
	GrandparentTransactionID string    `json:"grandparent_transaction_id"`
	SourceTransactionID      string    `json:"source_transaction_id"`
	SourceLine               int       `json:"source_line"`
	Inactive                 bool      `json:"inactive"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// AssetFromDomain converts a domain asset to its response.
func AssetFromDomain(a *domain.Asset) *AssetResponse {
	return &AssetResponse{
		ID:                       a.ID,
		Name:                     a.Name,
		Description:              a.Description,
		AssetType:                a.Profile.AssetType,
		DepreciationMethod:       a.Profile.Method,
		ResidualValue:            a.Profile.Residual.String(),
		LifetimeMonths:           a.Profile.LifetimeMonths,
		SerialNumber:             a.SerialNumber,
		ItemID:                   a.ItemID,
		Quantity:                 a.Quantity,
		Cost:                     a.Values.Cost.String(),
		CurrentCost:              a.Values.CurrentCost.String(),
		BookValue:                a.Values.BookValue.String(),
		LocationID:               a.LocationID,
		SubsidiaryID:             a.SubsidiaryID,
		CurrencyID:               a.CurrencyID,
		GrandparentTransactionID: a.GrandparentTransactionID,
		SourceTransactionID:      a.SourceTransactionID,
		SourceLine:               a.SourceLine,
		Inactive:                 a.Inactive,
		CreatedAt:                a.CreatedAt,
		UpdatedAt:                a.UpdatedAt,
	}
}

// AssetsFromDomain converts domain assets to responses.
func AssetsFromDomain(assets []*domain.Asset) []*AssetResponse {
	result := make([]*AssetResponse, len(assets))
	for i, a := range assets {
		result[i] = AssetFromDomain(a)
	}
	return result
}

// TransferOutcomeResponse describes how one transferred unit was reconciled.
type TransferOutcomeResponse struct {
	Line               int    `json:"line"`
	Assignment         int    `json:"assignment"`
	Serial             string `json:"serial"`
	Quantity           int64  `json:"quantity"`
	Case               string `json:"case"`
	SourceAssetID      string `json:"source_asset_id,omitempty"`
	DestinationAssetID string `json:"destination_asset_id,omitempty"`
}

// AllocationResponse describes one asset's landed cost share.
type AllocationResponse struct {
	AssetID string `json:"asset_id"`
	ItemID  string `json:"item_id"`
	Weight  string `json:"weight"`
	Portion string `json:"portion"`
}

// LandedCostResponse summarizes a landed cost allocation.
type LandedCostResponse struct {
	TotalPurchasePrice string               `json:"total_purchase_price"`
	TotalLandedCost    string               `json:"total_landed_cost"`
	Duplicate          bool                 `json:"duplicate,omitempty"`
	Allocations        []AllocationResponse `json:"allocations"`
}

// DispatchResponse reports what a receipt event did.
type DispatchResponse struct {
	ReceiptID         string                    `json:"receipt_id"`
	Outcome           string                    `json:"outcome"`
	TransactionType   string                    `json:"transaction_type,omitempty"`
	Created           []*AssetResponse          `json:"created,omitempty"`
	UnmappedLines     int                       `json:"unmapped_lines,omitempty"`
	CurrencyNotMapped bool                      `json:"currency_not_mapped,omitempty"`
	Duplicates        int                       `json:"duplicates,omitempty"`
	Transfers         []TransferOutcomeResponse `json:"transfers,omitempty"`
	LandedCost        *LandedCostResponse       `json:"landed_cost,omitempty"`
	Failures          []string                  `json:"failures,omitempty"`
	Error             string                    `json:"error,omitempty"`
}

// DispatchFromResult converts a dispatch result to its response.
func DispatchFromResult(res *usecase.DispatchResult) *DispatchResponse {
	resp := &DispatchResponse{
		ReceiptID:       res.ReceiptID,
		Outcome:         string(res.Outcome),
		TransactionType: string(res.TransactionType),
	}

	if c := res.Creation; c != nil {
		resp.Created = AssetsFromDomain(c.Created)
		resp.UnmappedLines = c.UnmappedLines
		resp.CurrencyNotMapped = c.CurrencyNotMapped
		resp.Duplicates += c.Duplicates
		resp.Failures = appendFailures(resp.Failures, c.Failures)
	}

	if t := res.Transfer; t != nil {
		for _, o := range t.Outcomes {
			resp.Transfers = append(resp.Transfers, TransferOutcomeResponse{
				Line:               o.Line,
				Assignment:         o.Assignment,
				Serial:             o.Serial,
				Quantity:           o.Quantity,
				Case:               string(o.Case),
				SourceAssetID:      o.SourceAssetID,
				DestinationAssetID: o.DestinationAssetID,
			})
		}
		resp.Duplicates += t.Duplicates
		resp.Failures = appendFailures(resp.Failures, t.Failures)
	}

	if a := res.Allocation; a != nil {
		lc := &LandedCostResponse{
			TotalPurchasePrice: a.TotalPurchasePrice.String(),
			TotalLandedCost:    a.TotalLandedCost.String(),
			Duplicate:          a.Duplicate,
			Allocations:        make([]AllocationResponse, len(a.Allocations)),
		}
		for i, al := range a.Allocations {
			lc.Allocations[i] = AllocationResponse{
				AssetID: al.AssetID,
				ItemID:  al.ItemID,
				Weight:  al.Weight.String(),
				Portion: al.Portion.String(),
			}
		}
		resp.LandedCost = lc
	}

	return resp
}

func appendFailures(dst []string, failures []usecase.UnitFailure) []string {
	for _, f := range failures {
		dst = append(dst, f.Error())
	}
	return dst
}
