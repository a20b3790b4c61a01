package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrQuoteAlreadyConverted is returned when a quote that already produced a
// sale is converted again.
var ErrQuoteAlreadyConverted = errors.New("quote already converted")

// ErrInvalidTransition is wrapped by lifecycle checks that refuse a status change.
var ErrInvalidTransition = errors.New("invalid status transition")

// ValidationError collects user-correctable problems found before anything is
// written. Fields maps a form field to its message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for field, keeping the first one reported.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// OrNil returns nil when no field failed.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NotFoundError reports a missing or foreign entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// InvalidInputError is raised by the pricing engine for values it refuses to
// compute with.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RenderError wraps a PDF generation failure.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return "render document: " + e.Err.Error() }
func (e *RenderError) Unwrap() error { return e.Err }

// ShareError wraps a failed share attempt.
type ShareError struct {
	Method string
	Err    error
}

func (e *ShareError) Error() string {
	return fmt.Sprintf("share via %s: %v", e.Method, e.Err)
}
func (e *ShareError) Unwrap() error { return e.Err }

// PersistenceError wraps a store failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}
func (e *PersistenceError) Unwrap() error { return e.Err }
