package web

// shutdownError is a type used to help with the graceful termination of the
// service, triggered when an integrity issue is identified inside a handler
// (a state that can no longer be trusted to keep serving requests).
type shutdownError struct {
	Message string
}

// NewShutdownError returns an error that causes the framework to signal a
// graceful shutdown.
func NewShutdownError(message string) error {
	return &shutdownError{message}
}

// Error implements the error interface.
func (e *shutdownError) Error() string {
	return e.Message
}

// isShutdown checks to see if the shutdown error is contained in the
// specified error value.
func isShutdown(err error) bool {
	_, ok := err.(*shutdownError)
	return ok
}
