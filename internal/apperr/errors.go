// Package apperr holds the error kinds shared by the storefront layers.
package apperr

import (
	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when an operation targets a missing id.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks malformed or missing required fields.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCategory is a validation failure for categories outside the known set.
	ErrInvalidCategory = errors.Wrap(ErrValidation, "invalid category")
	// ErrPersistence marks an unreachable or unwritable backing store.
	ErrPersistence = errors.New("persistence failure")
	// ErrAuth is returned for a wrong shared secret or a missing admin token.
	ErrAuth = errors.New("authentication failed")
)

func NotFound(what, id string) error {
	return errors.Wrapf(ErrNotFound, "%s %q", what, id)
}

func Validation(msg string) error {
	return errors.Wrap(ErrValidation, msg)
}

func Persistence(err error, op string) error {
	if err == nil {
		return nil
	}
	return &persistenceError{op: op, cause: err}
}

type persistenceError struct {
	op    string
	cause error
}

func (e *persistenceError) Error() string {
	return e.op + ": " + ErrPersistence.Error() + ": " + e.cause.Error()
}

func (e *persistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *persistenceError) Unwrap() error { return e.cause }

func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsAuth(err error) bool       { return errors.Is(err, ErrAuth) }

func IsPersistence(err error) bool { return errors.Is(err, ErrPersistence) }
