// Package errs provides the error types returned by the explorer api.
package errs

import (
	"errors"
	"net/http"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RequestError carries an error that is safe to show the caller along with
// the status code to send.
type RequestError struct {
	Err    error
	Status int
}

// NewRequestError wraps the error with an HTTP status code. Handlers use it
// for expected failures such as a malformed address.
func NewRequestError(err error, status int) error {
	return &RequestError{err, status}
}

// NewNotFound wraps the error with a 404 status.
func NewNotFound(err error) error {
	return &RequestError{err, http.StatusNotFound}
}

// Error implements the error interface.
func (re *RequestError) Error() string {
	return re.Err.Error()
}

// Unwrap returns the wrapped error.
func (re *RequestError) Unwrap() error {
	return re.Err
}

// IsRequestError checks if a RequestError exists in the chain.
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

// GetRequestError returns the RequestError in the chain or nil.
func GetRequestError(err error) *RequestError {
	var re *RequestError
	if !errors.As(err, &re) {
		return nil
	}
	return re
}
