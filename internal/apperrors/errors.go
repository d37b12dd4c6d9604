// internal/apperrors/errors.go

// Package apperrors defines the closed set of failure kinds the lifecycle
// service can surface. Handlers branch on these with errors.As instead of
// inspecting error messages.
package apperrors

import "fmt"

// ValidationError reports malformed or missing input. It is never retried.
type ValidationError struct {
	Message string
	Details interface{}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(message string, details interface{}) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

// ConflictError reports a uniqueness violation, e.g. serial generation
// exhausting its retries against the store's unique index.
type ConflictError struct {
	Resource string
	Key      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Resource, e.Key)
}

func NewConflict(resource, key string) *ConflictError {
	return &ConflictError{Resource: resource, Key: key}
}

// NotFoundError reports that no record matches the given key.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

func NewNotFound(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// UnauthenticatedError reports that a record exists but its authenticated
// flag is false, so it cannot be verified.
type UnauthenticatedError struct {
	SerialNumber string
}

func (e *UnauthenticatedError) Error() string {
	return fmt.Sprintf("qr code is not authenticated: %s", e.SerialNumber)
}

func NewUnauthenticated(serialNumber string) *UnauthenticatedError {
	return &UnauthenticatedError{SerialNumber: serialNumber}
}

// PersistenceError wraps a store failure that is not a uniqueness conflict.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistence(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}
