package events

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an event id does not exist, or when an
	// event has no reminder settings attached.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyCanceled is returned when canceling an event whose
	// is_canceled flag is already set.
	ErrAlreadyCanceled = errors.New("event already canceled")

	// ErrNoResults is returned by the category listing when the filter
	// matches nothing. It is a client error, not an absent resource.
	ErrNoResults = errors.New("no events found")
)

// ValidationError reports a request payload or parameter the caller can
// correct and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
