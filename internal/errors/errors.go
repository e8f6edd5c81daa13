// Package errors provides the error types shared by the sync engine.
// Gateway failures are reported as *SyncError carrying a Kind, so callers can
// branch with errors.Is against the sentinels below.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// New is the standard library errors.New, re-exported for convenience.
var New = errors.New

// Is, As and Unwrap are re-exported so importers can use this package in
// place of the standard library one.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Kind classifies a sync failure.
type Kind int

const (
	// KindUnreachable is a transport or connection failure.
	KindUnreachable Kind = iota
	// KindBadResponse is a response outside the 200 status class.
	KindBadResponse
	// KindMalformedPayload is a body that could not be decoded.
	KindMalformedPayload
	// KindTimeout is a fetch that exceeded its deadline.
	KindTimeout
	// KindCanceled is a fetch abandoned because the caller canceled.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindBadResponse:
		return "bad_response"
	case KindMalformedPayload:
		return "malformed_payload"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinel errors, one per Kind.
var (
	ErrUnreachable      = errors.New("remote unreachable")
	ErrBadResponse      = errors.New("bad response")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrTimeout          = errors.New("operation timed out")
	ErrCanceled         = errors.New("operation canceled")

	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrClosed is returned by components used after Close.
	ErrClosed = errors.New("closed")
)

func (k Kind) sentinel() error {
	switch k {
	case KindBadResponse:
		return ErrBadResponse
	case KindMalformedPayload:
		return ErrMalformedPayload
	case KindTimeout:
		return ErrTimeout
	case KindCanceled:
		return ErrCanceled
	default:
		return ErrUnreachable
	}
}

// SyncError is the single error type surfaced by the remote gateway and by a
// failed catalog refresh.
type SyncError struct {
	Kind       Kind
	Op         string // "fetch courses", "fetch reviews", ...
	URL        string
	StatusCode int           // set for KindBadResponse
	RetryAfter time.Duration // from a Retry-After header, if any
	Err        error
}

// Error implements the error interface
func (e *SyncError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.URL != "" {
		msg += " " + e.URL
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements errors.Unwrap
func (e *SyncError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *SyncError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Retryable reports whether repeating the operation may succeed.
func (e *SyncError) Retryable() bool {
	switch e.Kind {
	case KindTimeout, KindUnreachable:
		return true
	case KindBadResponse:
		return e.StatusCode == http.StatusTooManyRequests ||
			e.StatusCode == http.StatusRequestTimeout ||
			e.StatusCode >= 500
	default:
		return false
	}
}

// NewSyncError creates a new SyncError
func NewSyncError(kind Kind, op string, err error) *SyncError {
	return &SyncError{Kind: kind, Op: op, Err: err}
}

// Classify turns a transport error into a SyncError. Errors that already are
// a *SyncError are returned unchanged.
func Classify(op, url string, err error) *SyncError {
	if err == nil {
		return nil
	}
	var se *SyncError
	if errors.As(err, &se) {
		return se
	}

	kind := KindUnreachable
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.Is(err, context.Canceled):
		kind = KindCanceled
	default:
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			kind = KindTimeout
		}
	}
	return &SyncError{Kind: kind, Op: op, URL: url, Err: err}
}

// KindOf returns the kind of a SyncError anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}

// IsRetryable reports whether err is a retryable SyncError.
func IsRetryable(err error) bool {
	var se *SyncError
	return errors.As(err, &se) && se.Retryable()
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// IOError wraps a failed read or write of local state.
type IOError struct {
	Operation string // "read", "write"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// WrapIO wraps err as an IOError, returning nil for a nil err.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}
