/*
errors.go - Error types for the calorie tracker

ERROR CATEGORIES:
  1. Validation errors - blank or non-numeric input, the operation is declined
  2. Not-found errors - update/delete/select of an absent id, a no-op
  3. Deserialization errors - corrupt persisted state, recovered as empty

None of these are fatal. Callers degrade to "no visible change".

USAGE:
  if errors.Is(err, tracker.ErrValidation) {
      // show the message, keep the form as is
  }
*/
package tracker

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned when user input cannot be turned into an item.
	ErrValidation = errors.New("invalid item input")

	// ErrNotFound is returned when an operation references an absent item.
	ErrNotFound = errors.New("item not found")

	// ErrNoCurrentItem is returned by edit operations when nothing is selected.
	ErrNoCurrentItem = fmt.Errorf("no current item: %w", ErrNotFound)

	// ErrDeserialization is returned when the stored item list is unreadable.
	ErrDeserialization = errors.New("stored items are not valid item data")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError describes which field was rejected and why.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError names the id that could not be resolved.
type NotFoundError struct {
	ID ItemID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// DeserializationError wraps the decoder failure for a stored key.
type DeserializationError struct {
	Key string
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("decoding %q: %v", e.Key, e.Err)
}

// Unwrap exposes both the sentinel and the decoder error.
func (e *DeserializationError) Unwrap() []error {
	return []error{ErrDeserialization, e.Err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid user input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing item or selection.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
