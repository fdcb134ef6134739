package errors

import (
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound             = fmt.Errorf("not found")
	ErrDuplicateName        = fmt.Errorf("duplicate name")
	ErrDuplicatePartnership = fmt.Errorf("duplicate partnership")
	ErrInvalidInput         = fmt.Errorf("invalid input")
	ErrUnauthorized         = fmt.Errorf("unauthorized")
)

// ValidationError carries per-field messages. It unwraps to the sentinel
// that classifies it, ErrInvalidInput unless stated otherwise.
type ValidationError struct {
	Fields map[string]string
	Err    error
}

// NewValidationError returns a ValidationError with a single field message.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{Err: ErrInvalidInput}
	v.Add(field, message)
	return v
}

// Add records a message for field. The first message for a field wins.
func (v *ValidationError) Add(field, message string) {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	if _, ok := v.Fields[field]; !ok {
		v.Fields[field] = message
	}
}

// Empty reports whether no field has been recorded.
func (v *ValidationError) Empty() bool {
	return len(v.Fields) == 0
}

// OrNil returns v as an error, or nil when it holds no fields.
func (v *ValidationError) OrNil() error {
	if v == nil || v.Empty() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Fields[k])
	}
	return fmt.Sprintf("%v: %s", v.unwrapped(), strings.Join(parts, "; "))
}

func (v *ValidationError) Unwrap() error {
	return v.unwrapped()
}

func (v *ValidationError) unwrapped() error {
	if v.Err == nil {
		return ErrInvalidInput
	}
	return v.Err
}
