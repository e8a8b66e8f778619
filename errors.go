package trickle

import (
	"errors"
	"fmt"
)

// FailureText replaces the display buffer when a session fails for any reason.
const FailureText = "There was an error. Please try again later."

// WebSocket close codes used by the streaming protocol.
const (
	CloseNormal        = 1000
	CloseInternalError = 1011
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrStreamClosed indicates an operation on a stream closed by the caller.
	ErrStreamClosed = errors.New("stream closed")

	// ErrSuperseded indicates a fetch was replaced by a newer one before it
	// reached a terminal state.
	ErrSuperseded = errors.New("fetch superseded")
)

// Kind classifies why a streaming session failed.
type Kind int

const (
	KindTimeout       Kind = iota + 1 // No message within the idle window.
	KindServer                        // Server sent an ERROR status.
	KindTransport                     // Connection or decoding failure.
	KindAbnormalClose                 // Server closed with a non-normal code.
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindServer:
		return "server error"
	case KindTransport:
		return "transport error"
	case KindAbnormalClose:
		return "abnormal close"
	default:
		return "unknown"
	}
}

// Error is the terminal error of a failed streaming session. Code is the
// close code the channel ended with.
type Error struct {
	Kind Kind
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (close %d): %v", e.Kind, e.Code, e.Err)
	}
	return fmt.Sprintf("%s (close %d)", e.Kind, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorKind returns the Kind carried by err, or 0 when err is not an *Error.
func ErrorKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// APIError is returned by the request/response layer when the server answers
// with a detail message or a non-2xx status.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Detail)
}
