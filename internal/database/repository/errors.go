package repository

import (
	"errors"
	"fmt"
)

// NotFoundError signals that no row matched the requested key. An empty
// result set from the collection getters is reported the same way.
type NotFoundError struct {
	Entity string
	Key    string
	Value  any
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s with %s=%v not found", e.Entity, e.Key, e.Value)
}

// CommitError wraps a store error raised during a write. The transaction
// has already been rolled back when this surfaces.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("database commit failed: %v", e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// AuthorizationError is raised by the authorization check, not by the
// repository itself, and propagates through the same channel.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not authorized: %s", e.Reason)
}

// InvalidFieldError marks a sort column, filter path segment or update key
// that does not exist on the target entity. This is a configuration error
// and fails before any row is touched.
type InvalidFieldError struct {
	Entity string
	Field  string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("unknown field %q on %s", e.Field, e.Entity)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsCommitError(err error) bool {
	var ce *CommitError
	return errors.As(err, &ce)
}

func IsInvalidField(err error) bool {
	var fe *InvalidFieldError
	return errors.As(err, &fe)
}
