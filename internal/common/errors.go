package common

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. The transport layer maps each kind to one HTTP status.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("authentication required")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateTag       = errors.New("tag name already exists")
	ErrDuplicateRelation  = errors.New("tag already attached to article")
	ErrFeatureDisabled    = errors.New("feature not configured")
)

var kinds = []error{
	ErrValidation, ErrNotFound, ErrUnauthorized, ErrInvalidToken, ErrInvalidCredentials,
	ErrForbidden, ErrDuplicateEmail, ErrDuplicateUsername, ErrDuplicateTag,
	ErrDuplicateRelation, ErrFeatureDisabled,
}

// Error pairs a sentinel kind with a client-facing message. Cause holds
// internal detail for logs and is never shown to clients.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Errorf builds an Error of the given kind
func Errorf(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing resource by name, e.g. NotFound("article")
func NotFound(resource string) error {
	return Errorf(ErrNotFound, "%s not found", resource)
}

// Message returns the client-facing text of err. Context added by
// wrapping is dropped; only the Error message or the sentinel text remains.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return err.Error()
}

// Cause returns the internal detail attached to err, if any
func Cause(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Cause
	}
	return nil
}

// IsDuplicate reports whether err is any uniqueness conflict
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateEmail) ||
		errors.Is(err, ErrDuplicateUsername) ||
		errors.Is(err, ErrDuplicateTag) ||
		errors.Is(err, ErrDuplicateRelation)
}
