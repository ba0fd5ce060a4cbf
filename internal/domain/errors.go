package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrInvalidTag = errors.New("invalid tag")

	// ErrLookupUnavailable means an external lookup service could not be
	// reached. It aborts the current stage.
	ErrLookupUnavailable = errors.New("lookup unavailable")

	// ErrLemmaUnscoreable means a single lemma could not be scored.
	// The lemma is skipped; the bucket build continues.
	ErrLemmaUnscoreable = errors.New("lemma unscoreable")

	// ErrInsufficientBucketSize means a bucket holds fewer lemmas than requested.
	ErrInsufficientBucketSize = errors.New("insufficient bucket size")

	// ErrInflectionUnavailable means the inflection engine produced no form
	// for a required cell. The affected pair is dropped.
	ErrInflectionUnavailable = errors.New("inflection unavailable")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// BucketSizeError reports a bucket too small for the requested sample count.
type BucketSizeError struct {
	Class  WordClass
	Bucket int
	Have   int
	Want   int
}

func (e *BucketSizeError) Error() string {
	return fmt.Sprintf("%s bucket %d holds %d lemmas, %d requested: %s",
		e.Class, e.Bucket, e.Have, e.Want, ErrInsufficientBucketSize)
}

func (e *BucketSizeError) Unwrap() error { return ErrInsufficientBucketSize }

// InflectionError reports a cell the inflection engine could not produce.
type InflectionError struct {
	Lemma string
	Class WordClass
	Cell  Cell
	Err   error
}

func (e *InflectionError) Error() string {
	msg := fmt.Sprintf("inflect %s %q %s", e.Class, e.Lemma, e.Cell)
	if e.Err != nil && !errors.Is(e.Err, ErrInflectionUnavailable) {
		return msg + ": " + e.Err.Error()
	}
	return msg + ": " + ErrInflectionUnavailable.Error()
}

// Unwrap exposes both the sentinel and the underlying cause, so
// errors.Is(err, ErrInflectionUnavailable) and errors.Is(err, ErrLookupUnavailable)
// work as expected.
func (e *InflectionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInflectionUnavailable}
	}
	return []error{ErrInflectionUnavailable, e.Err}
}
