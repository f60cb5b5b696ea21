package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories. Every error returned by the services wraps exactly one of
// these so the HTTP layer can classify it with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrStore          = errors.New("store error")
	ErrNotImplemented = errors.New("not implemented")
)

// Error is a classified failure with a message that is safe to show clients.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Wrap returns a copy of e carrying cause. errors.Is(copy, e) still holds.
func (e *Error) Wrap(cause error) error {
	return &wrapped{e: &Error{Kind: e.Kind, Message: e.Message, Cause: cause}, sentinel: e}
}

// wrapped keeps a pointer back to the sentinel it was made from so that
// errors.Is matches that sentinel and not its siblings of the same kind.
type wrapped struct {
	e        *Error
	sentinel *Error
}

func (w *wrapped) Error() string {
	return w.e.Error()
}

func (w *wrapped) Unwrap() []error {
	return w.e.Unwrap()
}

func (w *wrapped) Is(target error) bool {
	return target == w.sentinel
}

func (w *wrapped) As(target any) bool {
	if t, ok := target.(**Error); ok {
		*t = w.e
		return true
	}
	return false
}

var (
	ErrUserNotFound     = NewError(ErrNotFound, "User not found")
	ErrCustomerNotFound = NewError(ErrNotFound, "Customer not found")
	ErrOrderNotFound    = NewError(ErrNotFound, "Order not found")
	ErrLocationNotFound = NewError(ErrNotFound, "Location not found")

	ErrDuplicateEmail    = NewError(ErrConflict, "Email already registered")
	ErrDuplicateLocation = NewError(ErrConflict, "Location with this name already exists")
	ErrConcurrentUpdate  = NewError(ErrConflict, "Locations were modified concurrently, please retry")

	ErrIncorrectPassword = NewError(ErrUnauthorized, "Incorrect password")
	ErrMissingToken      = NewError(ErrUnauthorized, "Authentication required")
	ErrInvalidToken      = NewError(ErrUnauthorized, "Invalid token")
	ErrExpiredToken      = NewError(ErrUnauthorized, "Token expired")

	ErrActOnOtherAccount = NewError(ErrForbidden, "Not allowed to act on behalf of another account")

	ErrOrderUpdateUnsupported = NewError(ErrNotImplemented, "Order updates are not supported yet")
)

// StoreError wraps a backing-store failure.
func StoreError(op string, err error) error {
	return &Error{Kind: ErrStore, Message: op, Cause: err}
}

// FieldError describes one failed rule on one field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Reason: reason}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
