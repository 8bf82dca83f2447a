// Package httpx holds the JSON response helpers shared by every
// controller, including the mapping from the error taxonomy to HTTP
// status codes.
package httpx

import (
	"encoding/json"
	"net/http"

	apperrors "comptoir/internal/errors"
)

type ErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details,omitempty"`
	TraceID string                       `json:"traceId,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"ENCODE_ERROR"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Error maps a service error to its HTTP representation. Unrecognized
// errors become a generic 500 without leaking internals.
func Error(w http.ResponseWriter, traceID string, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		JSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "VALIDATION_ERROR",
			Message: ve.Message,
			Details: ve.Details,
			TraceID: traceID,
		})
		return
	}
	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		JSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "NOT_FOUND",
			Message: nfe.Message,
			TraceID: traceID,
		})
		return
	}
	if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		JSON(w, http.StatusConflict, ErrorResponse{
			Error:   "INSUFFICIENT_STOCK",
			Message: ise.Error(),
			TraceID: traceID,
		})
		return
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		JSON(w, http.StatusConflict, ErrorResponse{
			Error:   "CONFLICT",
			Message: "the operation conflicted with another request, retry",
			TraceID: traceID,
		})
		return
	}
	JSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: "an unexpected error occurred",
		TraceID: traceID,
	})
}
