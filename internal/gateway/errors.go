package gateway

import (
	"errors"
	"fmt"
)

// Common errors returned by gateway operations.
//
// These can be checked with errors.Is():
//
//	if errors.Is(err, gateway.ErrUnavailable) {
//	    // bd could not be started (or the call timed out)
//	}
var (
	// ErrUnavailable is returned when the external bd process could not be
	// started, or when an invocation exceeded its timeout.
	ErrUnavailable = errors.New("bd is not available")

	// ErrMalformedResponse is returned when bd ran successfully but its
	// output could not be parsed as the expected JSON form.
	ErrMalformedResponse = errors.New("malformed bd response")
)

// RejectedError is returned when the bd process ran but exited non-zero.
// Diagnostic carries the process's stderr text verbatim.
type RejectedError struct {
	// Op is the bd subcommand that failed (list, show, update).
	Op string

	// Diagnostic is the stderr output of the failed invocation.
	Diagnostic string
}

func (e *RejectedError) Error() string {
	if e.Diagnostic == "" {
		return fmt.Sprintf("bd %s failed", e.Op)
	}
	return fmt.Sprintf("bd %s failed: %s", e.Op, e.Diagnostic)
}

// IsRejected reports whether the error is a RejectedError, returning it
// for access to the diagnostic text.
func IsRejected(err error) (*RejectedError, bool) {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected, true
	}
	return nil, false
}
