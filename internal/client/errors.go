// ABOUTME: Failure taxonomy for the Background Remover API client
// ABOUTME: Distinguishes validation, auth, server, network, and timeout failures

package client

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError is a client-side input rejection. It is returned before
// any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AuthError means the server rejected the bearer credential (401/403).
// Callers use it to force the session back to guest.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authorization rejected"
	}
	return e.Message
}

// ServerError is a non-2xx response that is not an auth rejection. Message
// carries the server-provided error text when the body had one.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return e.Message
}

// NetworkError means the request never completed.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("cannot reach API at %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError means a call exceeded its wall-clock budget. It is reported
// distinctly from NetworkError so long uploads can say so.
type TimeoutError struct {
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	if e.Budget > 0 {
		return fmt.Sprintf("request timed out after %s", e.Budget)
	}
	return "request timed out"
}

// ErrCanceled is returned when the caller's context was canceled before
// the request completed. Check with errors.Is.
var ErrCanceled = errors.New("request canceled")

// IsAuth reports whether err is (or wraps) an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTimeout reports whether err is (or wraps) a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
