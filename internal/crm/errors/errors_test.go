package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	v := NewValidationError("min_age", "A valid integer is required.")
	v.Add("max_age", "A valid integer is required.")
	v.Add("min_age", "ignored")

	assert.Equal(t, "A valid integer is required.", v.Fields["min_age"])
	assert.Len(t, v.Fields, 2)
	assert.True(t, errors.Is(v, ErrInvalidInput))
	assert.Equal(t, "invalid input: max_age: A valid integer is required.; min_age: A valid integer is required.", v.Error())

	wrapped := fmt.Errorf("failed to list employees: %w", v)
	var target *ValidationError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, v, target)
}

func TestValidationError_Classified(t *testing.T) {
	v := &ValidationError{Err: ErrDuplicateName}
	v.Add("name", "company with this name already exists.")

	assert.True(t, errors.Is(v, ErrDuplicateName))
	assert.False(t, errors.Is(v, ErrInvalidInput))
}

func TestValidationError_OrNil(t *testing.T) {
	var v ValidationError
	assert.NoError(t, v.OrNil())

	v.Add("page", "Invalid page.")
	assert.Error(t, v.OrNil())
}
