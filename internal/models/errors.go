package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingName      = errors.New("name is required")
	ErrMissingPersonA   = errors.New("person_a is required")
	ErrMissingPersonB   = errors.New("person_b is required")
	ErrInvalidSex       = errors.New("sex must be female, male, or empty")
	ErrInvalidRelType   = errors.New("unknown relationship type")
	ErrSelfRelationship = errors.New("a person cannot be related to themselves")
)

// Sentinel errors for entity lookups.
var (
	ErrPersonNotFound       = errors.New("person not found")
	ErrRelationshipNotFound = errors.New("relationship not found")
)

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}
