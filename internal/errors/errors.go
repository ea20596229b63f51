package errors

import (
	"github.com/pkg/errors"
)

// Common error types for the RedSource server
var (
	// Token errors
	ErrMalformedToken      = errors.New("malformed token")
	ErrSignatureInvalid    = errors.New("token signature invalid")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenRevoked        = errors.New("token revoked")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// Principal errors
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrPrincipalMismatch  = errors.New("principal does not match token subject")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Authorization errors
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")

	// General errors
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternal       = errors.New("internal error")
)

// Wrapf annotates err with a message and the call stack. It returns nil when
// err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Cause returns the innermost error of a Wrapf chain.
func Cause(err error) error {
	return errors.Cause(err)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New returns an error carrying the call stack, re-exported so callers need a
// single errors import.
func New(text string) error {
	return errors.New(text)
}
