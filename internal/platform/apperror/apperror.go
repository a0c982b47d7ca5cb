// Package apperror defines the typed error conditions surfaced by the
// repository and service layers. Every condition is scoped to a single
// operation; frontends translate them into exit codes or HTTP statuses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// NotFoundError reports that the entity addressed by an operation does
// not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// NotFound builds a NotFoundError for the given entity kind and id.
func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ReferenceNotFoundError reports that a foreign-key field points at a
// row that does not exist. It carries the referenced kind and id, not
// the entity being written.
type ReferenceNotFoundError struct {
	Entity string
	ID     int64
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("referenced %s %d not found", e.Entity, e.ID)
}

// ReferenceNotFound builds a ReferenceNotFoundError.
func ReferenceNotFound(entity string, id int64) error {
	return &ReferenceNotFoundError{Entity: entity, ID: id}
}

// ConflictError reports a uniqueness violation, such as a duplicate
// department name.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// Conflict builds a ConflictError with a formatted reason.
func Conflict(format string, args ...interface{}) error {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError reports a missing required field, an unparseable
// date, or an enum value outside its allowed set.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for the named field.
func Validation(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// StoreError wraps an underlying persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store wraps err as a StoreError for the named operation. Returns nil
// when err is nil so repositories can wrap unconditionally.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsReferenceNotFound reports whether err is a ReferenceNotFoundError.
func IsReferenceNotFound(err error) bool {
	var rnf *ReferenceNotFoundError
	return errors.As(err, &rnf)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// HTTPStatus maps an error to the HTTP status code the REST frontend
// should respond with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsNotFound(err), IsReferenceNotFound(err):
		return http.StatusNotFound
	case IsConflict(err):
		return http.StatusConflict
	case IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
