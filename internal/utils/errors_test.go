package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("odds must be non-zero")
	require.Error(t, err)
	assert.Equal(t, "odds must be non-zero", err.Error())

	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestNewValidationErrorf(t *testing.T) {
	err := NewValidationErrorf("invalid odds value: %d", 0)
	require.Error(t, err)
	assert.Equal(t, "invalid odds value: 0", err.Error())
}
