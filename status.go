package ssmtp

import "fmt"

// Status is the outcome of a Session operation, mirroring the handful of
// error codes the C original (richwalm/ssmtp) surfaces to its caller.
type Status int

const (
	// InvalidState means the operation isn't allowed from the session's
	// current lifecycle state. The wire was never touched.
	InvalidState Status = -1
	// Success means the operation completed and the server accepted it.
	Success Status = 0
	// Failure means the server replied with a well-formed but unexpected
	// status. The session remains usable.
	Failure Status = 1
	// Buffer means a local allocation or fixed-size buffer was exceeded.
	Buffer Status = 2
	// Protocol means a transport error or a malformed server reply. The
	// session has already been shut down by the time this is returned.
	Protocol Status = 3
	// Data means the caller supplied invalid input: a bad address, a body
	// containing the end-of-data token, or an attachment read error.
	Data Status = 4
)

func (s Status) String() string {
	switch s {
	case InvalidState:
		return "invalid state"
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Buffer:
		return "buffer"
	case Protocol:
		return "protocol"
	case Data:
		return "data"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// StatusError pairs a Status with the detail that produced it. When the
// server itself replied, Code carries the raw 3-digit SMTP status so a
// caller can tell a 4xx transient rejection from a 5xx permanent one — the
// engine itself only ever classifies both as Failure (see spec's Open
// Question on 4xx vs 5xx).
type StatusError struct {
	Status  Status
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: %d %s", e.Status, e.Code, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Status, e.Message)
	}
	return e.Status.String()
}

func newStatusError(s Status, msg string) *StatusError {
	return &StatusError{Status: s, Message: msg}
}

func newReplyError(s Status, code int, msg string) *StatusError {
	return &StatusError{Status: s, Code: code, Message: msg}
}
