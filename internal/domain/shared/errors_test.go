package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Error(t *testing.T) {
	assert.Equal(t, "Invalid filter type", NewValidationError("Invalid filter type").Error())

	err := NewQueryError(errors.New("connection refused"))
	assert.Equal(t, "Failed to load report data: connection refused", err.Error())
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("font not found")
	err := fmt.Errorf("export: %w", NewRenderError(cause))

	assert.ErrorIs(t, err, cause)

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeRenderFailed, de.Code)
	assert.Equal(t, "Failed to generate report document", de.Message)
}

func TestDomainError_IsMatchesByCode(t *testing.T) {
	assert.ErrorIs(t, NewQueryError(errors.New("timeout")), ErrQueryFailed)
	assert.ErrorIs(t, NewUnauthorizedError("Authentication required"), ErrUnauthorized)
	assert.NotErrorIs(t, NewValidationError("bad"), ErrQueryFailed)
	// a wrapped error is not a sentinel target
	assert.NotErrorIs(t, ErrQueryFailed, NewQueryError(errors.New("timeout")))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError("Invalid export format")))
	assert.True(t, IsValidation(fmt.Errorf("wrapped: %w", ErrInvalidInput)))
	assert.False(t, IsValidation(ErrUnauthorized))
	assert.False(t, IsValidation(errors.New("plain")))
	assert.False(t, IsValidation(nil))
}
