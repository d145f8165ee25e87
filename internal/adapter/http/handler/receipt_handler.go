package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/assetsync/internal/adapter/http/dto"
	"github.com/iho/assetsync/internal/domain"
	"github.com/iho/assetsync/internal/infrastructure/metrics"
	"github.com/iho/assetsync/internal/usecase"
)

// ReceiptDispatcher defines the behavior needed by ReceiptHandler.
type ReceiptDispatcher interface {
	OnCreate(ctx context.Context, receiptID string) (*usecase.DispatchResult, error)
	HandleReceiptUpdated(ctx context.Context, receiptID string, previous domain.LandedCosts) (*usecase.DispatchResult, error)
}

// ReceiptHandler delivers receipt lifecycle events over HTTP.
type ReceiptHandler struct {
	dispatcher ReceiptDispatcher
	metrics    *metrics.Metrics
}

// NewReceiptHandler creates a new ReceiptHandler. m may be nil.
func NewReceiptHandler(dispatcher ReceiptDispatcher, m *metrics.Metrics) *ReceiptHandler {
	return &ReceiptHandler{dispatcher: dispatcher, metrics: m}
}

// Created handles a receipt creation event.
func (h *ReceiptHandler) Created(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing receipt ID", "")
		return
	}

	start := time.Now()
	res, err := h.dispatcher.OnCreate(r.Context(), id)
	h.metrics.RecordDispatch("created", res, err, time.Since(start))

	writeDispatch(w, res, err)
}

// Updated handles a receipt update event. The body carries the landed cost
// amounts from before the update.
func (h *ReceiptHandler) Updated(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing receipt ID", "")
		return
	}

	var req dto.ReceiptUpdatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := dto.Validate(&req); err != nil {
		writeValidationError(w, err)
		return
	}

	previous, err := req.LandedCosts()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	start := time.Now()
	res, err := h.dispatcher.HandleReceiptUpdated(r.Context(), id, previous)
	h.metrics.RecordDispatch("updated", res, err, time.Since(start))

	writeDispatch(w, res, err)
}

// writeDispatch writes the dispatch summary. Partial unit failures keep the
// summary in the body but use an error status so the call is retried.
func writeDispatch(w http.ResponseWriter, res *usecase.DispatchResult, err error) {
	if err != nil {
		status := mapDomainError(err)
		if res == nil {
			writeError(w, status, "failed to process receipt", err.Error())
			return
		}

		resp := dto.DispatchFromResult(res)
		resp.Error = err.Error()
		writeJSON(w, status, resp)

		return
	}

	writeJSON(w, http.StatusOK, dto.DispatchFromResult(res))
}
