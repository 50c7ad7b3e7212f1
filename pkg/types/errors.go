// Package types defines error types
package types

import (
	"errors"
	"fmt"

	"github.com/jzx17/offthread/pkg/codec"
	"github.com/jzx17/offthread/pkg/resource"
)

// Predefined errors
var (
	// ErrUnserializable indicates a payload the message codec cannot represent
	ErrUnserializable = codec.ErrUnserializable

	// ErrUndefinedUnit indicates a worker script naming a unit that is not registered
	ErrUndefinedUnit = errors.New("unit is not defined")

	// ErrResourceNotFound indicates an unknown or revoked resource locator
	ErrResourceNotFound = resource.ErrNotFound

	// ErrInvalidScript indicates an executable resource that does not hold a launch script
	ErrInvalidScript = errors.New("invalid worker script")

	// ErrTerminated indicates the worker has been terminated
	ErrTerminated = errors.New("worker is terminated")

	// ErrNoPayload indicates an attempt to decode an event that carries no message
	ErrNoPayload = errors.New("event carries no payload")
)

// WorkerError represents a failure raised inside a worker
type WorkerError struct {
	// Unit is the name of the unit that failed
	Unit string

	// Handle is the identifier of the handle that owns the worker
	Handle string

	// Cause is the underlying error
	Cause error

	// Context contains error context information
	Context map[string]interface{}
}

// Error implements the error interface
func (e *WorkerError) Error() string {
	if e.Unit == "" {
		return fmt.Sprintf("worker error: %v", e.Cause)
	}
	return fmt.Sprintf("worker error in unit %s: %v", e.Unit, e.Cause)
}

// Unwrap returns the underlying error
func (e *WorkerError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is a specific error
func (e *WorkerError) Is(target error) bool {
	return errors.Is(e.Cause, target)
}

// NewWorkerError creates a new worker error
func NewWorkerError(unit, handle string, cause error) *WorkerError {
	return &WorkerError{
		Unit:    unit,
		Handle:  handle,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds error context
func (e *WorkerError) WithContext(key string, value interface{}) *WorkerError {
	e.Context[key] = value
	return e
}
