package errors

import (
	"net/http"
	"testing"

	"storefront/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_WithMessagefKeepsIdentity(t *testing.T) {
	err := ErrCategoryInUse.WithMessagef("Cannot delete category. It has %d product(s). Please delete or reassign products first.", 3)

	assert.Equal(t, "Cannot delete category. It has 3 product(s). Please delete or reassign products first.", err.Message())
	assert.Equal(t, http.StatusBadRequest, err.HTTPCode())
	assert.True(t, errors.Is(err, ErrCategoryInUse))
	assert.False(t, errors.Is(err, ErrCategoryAlreadyExists))
}

func TestBaseError_WrapMessageKeepsAppError(t *testing.T) {
	wrapped := ErrInsufficientStock.WithMessage("Insufficient stock for Mug").WrapMessage("create order")

	var appErr AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "Insufficient stock for Mug", appErr.Message())
	assert.Equal(t, "INSUFFICIENT_STOCK", appErr.ErrorCode())
	assert.True(t, errors.Is(wrapped, ErrInsufficientStock))
}

func TestDatabaseExecuteError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewDatabaseExecuteError(cause, "failed to create order")

	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode())
	assert.Equal(t, "failed to create order", err.Details())
	assert.Contains(t, err.Error(), "connection reset")
	assert.True(t, errors.Is(err, cause))
}
