package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "document not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("customer 9 not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "customer 9 not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestValidationError_Creation(t *testing.T) {
	message := "invalid document"
	details := []ValidationDetail{
		{Field: "customerId", Message: "a customer is required"},
		{Field: "items", Message: "at least one item is required"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestValidationError_IsValidationError(t *testing.T) {
	err := NewValidationError("invalid expense")

	validationErr, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.NotNil(t, validationErr)

	_, ok = IsValidationError(errors.New("plain error"))
	assert.False(t, ok)
}

func TestInsufficientStockError_Creation(t *testing.T) {
	err := NewInsufficientStockError(4, 10, 3)

	assert.Equal(t, 4, err.ProductID)
	assert.Equal(t, 10, err.Requested)
	assert.Equal(t, 3, err.Available)
	assert.Contains(t, err.Error(), "insufficient stock")
}

func TestInsufficientStockError_IsInsufficientStockError(t *testing.T) {
	err := NewInsufficientStockError(4, 10, 3)

	stockErr, ok := IsInsufficientStockError(err)
	assert.True(t, ok)
	assert.Equal(t, 4, stockErr.ProductID)

	_, ok = IsInsufficientStockError(errors.New("plain error"))
	assert.False(t, ok)
}

func TestConflictError_Creation(t *testing.T) {
	cause := errors.New("Error 1213: Deadlock found when trying to get lock")
	err := NewConflictError("transaction conflict", cause)

	assert.Equal(t, "transaction conflict", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "transaction conflict")
}

func TestConflictError_IsConflictError(t *testing.T) {
	err := NewConflictError("transaction conflict", nil)

	conflictErr, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.NotNil(t, conflictErr)

	_, ok = IsConflictError(errors.New("plain error"))
	assert.False(t, ok)
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
}
