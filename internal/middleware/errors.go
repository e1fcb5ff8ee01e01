package middleware

import (
	"errors"

	"google.golang.org/api/googleapi"
)

// UnknownErrorMessage stands in for a remote failure that carried no message.
const UnknownErrorMessage = "Unknown error"

// RemoteError is the caller-facing view of a failed Forms call. Only Message
// crosses the tool boundary; Code and Err are kept for diagnostic logging.
type RemoteError struct {
	Code    int
	Message string
	Err     error
}

func (e *RemoteError) Error() string { return e.Text() }

func (e *RemoteError) Unwrap() error { return e.Err }

// Text returns the message, or UnknownErrorMessage when there is none.
func (e *RemoteError) Text() string {
	if e.Message == "" {
		return UnknownErrorMessage
	}
	return e.Message
}

// AsRemoteError extracts the message of a Google API error. Any other error
// contributes its own text. Returns nil for a nil error.
func AsRemoteError(err error) *RemoteError {
	if err == nil {
		return nil
	}

	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote
	}

	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) {
		return &RemoteError{Code: googleErr.Code, Message: googleErr.Message, Err: err}
	}

	return &RemoteError{Message: err.Error(), Err: err}
}
