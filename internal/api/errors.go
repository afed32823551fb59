package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated indicates a missing, invalid or expired
	// credential. The gateway raises it both locally (no token before an
	// authenticated call) and for 401/422 responses, after forcing logout.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrAlreadyInProgress is the local reentrancy guard for MCQ
	// generation. It never reaches the network.
	ErrAlreadyInProgress = errors.New("generation already in progress")

	// ErrPasswordMismatch indicates the new password and its confirmation
	// differ. Checked client-side before any network call.
	ErrPasswordMismatch = errors.New("new passwords do not match")

	// ErrEmptyAnswer indicates a submission was attempted with an empty
	// answer. Blocked before the network.
	ErrEmptyAnswer = errors.New("answer is empty")
)

// RemoteError is a business-logic rejection from the service: any non-2xx
// response that is not an authentication failure. Message carries the
// server-supplied text verbatim.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("remote error (HTTP %d)", e.Status)
}

// UnreachableError indicates no response was received at all.
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("service unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// UserMessage converts a gateway error into text fit for the UI.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	var unreach *UnreachableError
	if errors.As(err, &unreach) {
		return "Cannot reach the server. Check your connection and try again."
	}
	if errors.Is(err, ErrUnauthenticated) {
		return "Your session has expired. Please log in again."
	}
	return err.Error()
}
