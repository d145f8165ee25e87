package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/assetsync/internal/adapter/http/dto"
	"github.com/iho/assetsync/internal/domain"
)

// AssetService defines the behavior needed by AssetHandler.
type AssetService interface {
	GetAsset(ctx context.Context, id string) (*domain.Asset, error)
	ListByReceipt(ctx context.Context, receiptID string) ([]*domain.Asset, error)
}

// AssetHandler handles asset read requests.
type AssetHandler struct {
	assets AssetService
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assets AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// Get retrieves an asset by ID.
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing asset ID", "")
		return
	}

	asset, err := h.assets.GetAsset(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get asset", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AssetFromDomain(asset))
}

// ListByReceipt lists the assets a receipt created, active or not.
func (h *AssetHandler) ListByReceipt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing receipt ID", "")
		return
	}

	assets, err := h.assets.ListByReceipt(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list assets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AssetsFromDomain(assets))
}
