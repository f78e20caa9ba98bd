// Package apperr defines the error kinds returned by services and their HTTP mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// InvalidInputError indicates a malformed or missing request field.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

// ForbiddenError indicates the caller's role does not permit the operation.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// NotFoundError indicates a missing record, including a missing or unknown role.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// StorageError wraps a backing-store failure. Its message is the store's message.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

// InconsistentStateError indicates the identity store and the profile store disagree.
type InconsistentStateError struct {
	Message string
}

func (e *InconsistentStateError) Error() string { return e.Message }

// PartialFailureError reports a multi-step operation where Done succeeded and Failed did not.
type PartialFailureError struct {
	Done   string
	Failed string
	Err    error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s, but %s failed", e.Done, e.Failed)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }

// InvalidInput creates an InvalidInputError with a formatted message.
func InvalidInput(format string, args ...interface{}) *InvalidInputError {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// Forbidden creates a ForbiddenError with a formatted message.
func Forbidden(format string, args ...interface{}) *ForbiddenError {
	return &ForbiddenError{Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a NotFoundError with a formatted message.
func NotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// Storage wraps err as a StorageError. A nil err stays nil.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Err: err}
}

// InconsistentState creates an InconsistentStateError with a formatted message.
func InconsistentState(format string, args ...interface{}) *InconsistentStateError {
	return &InconsistentStateError{Message: fmt.Sprintf(format, args...)}
}

// PartialFailure creates a PartialFailureError.
func PartialFailure(done, failed string, err error) *PartialFailureError {
	return &PartialFailureError{Done: done, Failed: failed, Err: err}
}

// HTTPStatus maps an error kind to its response status.
func HTTPStatus(err error) int {
	var invalid *InvalidInputError
	var forbidden *ForbiddenError
	var notFound *NotFoundError

	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsPartialFailure reports whether err is a PartialFailureError.
func IsPartialFailure(err error) bool {
	var pf *PartialFailureError
	return errors.As(err, &pf)
}
