package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/assetsync/internal/adapter/http/dto"
	"github.com/iho/assetsync/internal/adapter/resilience"
	"github.com/iho/assetsync/internal/domain"
	"github.com/iho/assetsync/internal/usecase"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeValidationError writes a 400 response for a failed request body.
func writeValidationError(w http.ResponseWriter, err error) {
	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid request body",
			Message: verr.Error(),
			Fields:  verr.Fields,
		})
		return
	}

	writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAssetNotFound),
		errors.Is(err, domain.ErrReceiptNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrUnknownTransaction):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidLandedCost),
		errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSameLocation),
		errors.Is(err, domain.ErrMissingLocation),
		errors.Is(err, domain.ErrRateNotFound),
		errors.Is(err, domain.ErrZeroPurchasePrice),
		errors.Is(err, domain.ErrDivisionByZero):
		return http.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrUnitInProgress):
		return http.StatusConflict
	case errors.Is(err, resilience.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
