package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrUnavailable marks a persistence failure. The service answers it by
	// rerouting the operation to the in-memory fallback.
	ErrUnavailable = errors.New("persistence unavailable")

	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrMenuItemUnavailable = errors.New("menu item not available")
)

// Unavailable wraps a store failure as ErrUnavailable. A request the caller
// abandoned is not an outage and keeps context.Canceled in its chain instead.
func Unavailable(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field-level failure found in a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Err returns nil when nothing was recorded.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ReferenceError points at the line item whose menu reference could not be used.
type ReferenceError struct {
	MenuItemID string
	Name       string
	Err        error
}

func (e *ReferenceError) Error() string {
	if errors.Is(e.Err, ErrMenuItemUnavailable) && e.Name != "" {
		return fmt.Sprintf("%s: %s", e.Err, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Err, e.MenuItemID)
}

func (e *ReferenceError) Unwrap() error { return e.Err }

// StateError is an operation the current order status does not permit.
type StateError struct {
	From   Status
	To     Status
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s: %s", e.From, e.To, e.Reason)
}
