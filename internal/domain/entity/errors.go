package entity

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport covers network failures and non-2xx responses
	ErrTransport = errors.New("transport error")
	// ErrAuth covers rejected credentials and failed token exchanges
	ErrAuth = errors.New("authentication error")
	// ErrNotFound is returned by lookups with no result
	ErrNotFound = errors.New("not found")
)

// StatusError is a non-2xx response from an upstream service
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Unwrap maps 401/403 to ErrAuth and everything else to ErrTransport
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrAuth
	}
	return ErrTransport
}
