package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "comptoir/internal/errors"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"id": 42})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id": 42}`, rec.Body.String())
}

func TestError_Validation(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, "trace-1", apperrors.NewValidationError("invalid document",
		apperrors.ValidationDetail{Field: "customerId", Message: "a customer is required"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error)
	assert.Equal(t, "trace-1", resp.TraceID)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "customerId", resp.Details[0].Field)
}

func TestError_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, "", apperrors.NewNotFoundError("customer 9 not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec).Error)
}

func TestError_InsufficientStock(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, "", apperrors.NewInsufficientStockError(1, 6, 5))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode(t, rec).Error)
}

func TestError_Conflict(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, "", apperrors.NewConflictError("transaction conflict", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", decode(t, rec).Error)
}

func TestError_Unknown(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, "", errors.New("driver: bad connection"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error)
	assert.NotContains(t, resp.Message, "driver")
}
