package graphql

import (
	"errors"
	"fmt"
	"strings"
)

// NetworkError indicates the request never produced a well-formed
// response: connection failure, timeout, or a server-side 5xx. Network
// errors are retryable.
type NetworkError struct {
	Operation string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error executing %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ApplicationError indicates the server responded with a structured
// error payload and no usable data (invalid SKU, validation failure).
// Application errors are terminal: retrying reproduces the same error.
type ApplicationError struct {
	Operation string
	Code      string
	Message   string
	Errors    []ResponseError
}

func (e *ApplicationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s failed: %s (%s)", e.Operation, e.Message, e.Code)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// PartialError indicates the response carried both usable data and
// errors. The data is always forwarded alongside this error; the caller
// decides whether to render the partial result or treat it as failure.
type PartialError struct {
	Operation string
	Errors    []ResponseError
}

func (e *PartialError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, re := range e.Errors {
		msgs = append(msgs, re.Message)
	}
	return fmt.Sprintf("%s partially failed: %s", e.Operation, strings.Join(msgs, "; "))
}

// IsRetryable reports whether the error is a transport-level failure
// that may succeed on a subsequent attempt.
func IsRetryable(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
