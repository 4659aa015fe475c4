package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")

	// Service-level errors.
	ErrorValidation     = errors.New("validation error")
	ErrorBadCredentials = errors.New("bad credentials")
	ErrorAccessDenied   = errors.New("access denied")
	ErrorUnavailable    = errors.New("unavailable")
	ErrorInternal       = errors.New("internal error")
)

// Error is a client-facing message classified by one of the sentinel
// kinds above. errors.Is matches it against its Kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds an *Error of the given kind.
func NewError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// CryptoError reports a failed key derivation, encryption or decryption.
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string {
	if e.Err == nil {
		return "crypto: " + e.Op
	}
	return fmt.Sprintf("crypto: %s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error { return e.Err }

// Authentication failure reasons.
const (
	ReasonInvalidToken    = "Invalid JWT token"
	ReasonInvalidUsername = "Invalid username"
	ReasonNoToken         = "No JWT token found in request"
	ReasonNoUsername      = "No username found in request"
)

// AuthenticationError is returned for any credential extraction or token
// verification failure. It always maps to 401 at the HTTP boundary.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	return "Authentication failed: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// NewAuthenticationError wraps err (may be nil) with the given reason.
func NewAuthenticationError(reason string, err error) error {
	return &AuthenticationError{Reason: reason, Err: err}
}

// InitializationError aborts startup when a component cannot be
// bootstrapped, e.g. the signing key or the datasource credentials.
type InitializationError struct {
	Component string
	Message   string
	Err       error
}

func (e *InitializationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }
