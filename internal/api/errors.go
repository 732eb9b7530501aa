package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an application-level failure reported through the response
// envelope (HTTP 2xx with a non-200 envelope code).
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// HTTPError is a transport-level failure: the server responded, but
// outside the 2xx range.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// NetworkError means no response was received at all (connection
// failure or timeout).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsAuthExpired reports whether err is a 401 from either the envelope
// or the HTTP layer, i.e. the call already triggered the forced logout.
func IsAuthExpired(err error) bool {
	var envErr *Error
	if errors.As(err, &envErr) {
		return envErr.Code == http.StatusUnauthorized
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusUnauthorized
	}
	return false
}
