package auth

import (
	"errors"
	"fmt"
)

// Sentinel errors for the authentication boundary. Callers distinguish a
// rejected credential from a valid identity that has no account in this
// system; the two must never collapse into one code path.
var (
	// ErrBadCredentials is returned when the identity provider rejects the
	// supplied email/password pair. It does not affect existing session state.
	ErrBadCredentials = errors.New("invalid email or password")

	// ErrProfileNotFound is returned when the identity is valid upstream but
	// no domain user record exists for it. Terminal for this identity.
	ErrProfileNotFound = errors.New("no account exists for this identity")
)

// FetchError wraps an infrastructure failure while resolving a profile.
// Unlike ErrProfileNotFound it is retryable and must not silently produce a
// false "unauthenticated".
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError wraps err as a retryable profile fetch failure.
func NewFetchError(op string, err error) *FetchError {
	return &FetchError{Op: op, Err: err}
}

// ErrorKind classifies the last boundary failure held by a session snapshot.
type ErrorKind string

const (
	ErrorKindNone            ErrorKind = ""
	ErrorKindAuth            ErrorKind = "auth"
	ErrorKindProfileNotFound ErrorKind = "profile_not_found"
	ErrorKindFetch           ErrorKind = "fetch"
)

// Retryable reports whether the failure may succeed if the operation is
// simply attempted again. Only infrastructure failures qualify.
func (k ErrorKind) Retryable() bool { return k == ErrorKindFetch }

// Classify maps a boundary error to its kind. Unknown errors are treated as
// infrastructure failures so they surface as retryable rather than being
// mistaken for a rejected login.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrBadCredentials):
		return ErrorKindAuth
	case errors.Is(err, ErrProfileNotFound):
		return ErrorKindProfileNotFound
	default:
		return ErrorKindFetch
	}
}
