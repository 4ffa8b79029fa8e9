package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrorKind classifies service failures. Handlers map it to an HTTP status.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindDependencyBlocked
	KindAuthentication
	KindAuthorization
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindDependencyBlocked:
		return "dependency_blocked"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	default:
		return "internal"
	}
}

// Error is a domain error carrying a user-facing French message
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports bad input: missing field, invalid enum, broken invariant
func ValidationError(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

// NotFoundError reports a missing entity
func NotFoundError(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

// ConflictError reports a uniqueness violation
func ConflictError(format string, args ...interface{}) *Error {
	return newError(KindConflict, format, args...)
}

// DependencyBlockedError reports a delete refused because live rows reference the entity
func DependencyBlockedError(format string, args ...interface{}) *Error {
	return newError(KindDependencyBlocked, format, args...)
}

// AuthenticationError reports bad credentials or an unusable account
func AuthenticationError(format string, args ...interface{}) *Error {
	return newError(KindAuthentication, format, args...)
}

// AuthorizationError reports a caller lacking the required role
func AuthorizationError(format string, args ...interface{}) *Error {
	return newError(KindAuthorization, format, args...)
}

// KindOf returns the kind of err, KindInternal for errors not raised by this package
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// notFoundOr converts gorm.ErrRecordNotFound into a NotFoundError and wraps anything else
func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError(format, args...)
	}
	return fmt.Errorf("query failed: %w", err)
}

// conflictOr converts a unique index violation into a ConflictError
func conflictOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		e := ConflictError(format, args...)
		e.Err = err
		return e
	}
	return err
}
