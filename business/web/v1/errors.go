// Package v1 provides the HTTP-facing error plumbing shared by the public
// and private handler groups: an error value that knows what status code it
// should produce, so handlers can return plain Go errors and still have the
// web layer render the right response.
package v1

import "errors"

// RequestError is used to pass an error during the request through the
// application with web specific context. A RequestError carries the status
// code that should be used for the client's response.
type RequestError struct {
	Err    error
	Status int
}

// NewRequestError wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewRequestError(err error, status int) error {
	return &RequestError{Err: err, Status: status}
}

// Error implements the error interface, unwrapping to the underlying error's
// message.
func (err *RequestError) Error() string {
	return err.Err.Error()
}

// IsRequestError checks if an error of type RequestError exists.
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

// GetRequestError returns a copy of the RequestError pointer.
func GetRequestError(err error) *RequestError {
	var re *RequestError
	if !errors.As(err, &re) {
		return nil
	}
	return re
}
