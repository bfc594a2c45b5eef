// Package apierr defines the single error shape every failed backend call is
// reduced to before it reaches error presentation: an HTTP status code and
// nothing else.
//
// Callers check the status with StatusCode or match a status class with
// errors.Is, e.g. errors.Is(err, apierr.ErrUnauthorized).
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// DefaultStatus is used when a failure carries no HTTP status (network error,
// timeout, cancelled request, undecodable body).
const DefaultStatus = http.StatusInternalServerError

// Status-class sentinels. An *Error matches the sentinel of its status code.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrUnprocessable   = errors.New("unprocessable entity")
	ErrTooManyRequests = errors.New("too many requests")
	ErrServer          = errors.New("server error")
)

// Error is a failed call. StatusCode is always a positive HTTP status.
type Error struct {
	StatusCode int
}

// New returns an *Error for status, substituting DefaultStatus for
// non-positive values.
func New(status int) *Error {
	if status <= 0 {
		status = DefaultStatus
	}
	return &Error{StatusCode: status}
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

// Is reports whether target is the status-class sentinel for e, or another
// *Error with the same status.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.StatusCode == e.StatusCode
	}
	return sentinelFor(e.StatusCode) == target && target != nil
}

// StatusCode extracts the status carried by err. ok is false when err is not
// (and does not wrap) an *Error.
func StatusCode(err error) (status int, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode, true
	}
	return 0, false
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnprocessableEntity:
		return ErrUnprocessable
	case http.StatusTooManyRequests:
		return ErrTooManyRequests
	}
	if status >= 500 {
		return ErrServer
	}
	return nil
}
