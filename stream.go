package trickle

import (
	"context"
	"time"
)

// DefaultIdleTimeout is how long a session waits for its first message.
const DefaultIdleTimeout = 15 * time.Second

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateIdle                 StreamState = iota // No channel yet.
	StreamStateConnecting                              // Channel requested, not yet open.
	StreamStateAwaitingFirstMessage                    // Open, idle deadline armed.
	StreamStateStreaming                               // At least one message received.
	StreamStateDone                                    // Terminal success.
	StreamStateFailed                                  // Terminal failure.
	StreamStateClosed                                  // Close() called before a terminal state.
)

func (s StreamState) String() string {
	switch s {
	case StreamStateIdle:
		return "idle"
	case StreamStateConnecting:
		return "connecting"
	case StreamStateAwaitingFirstMessage:
		return "awaiting first message"
	case StreamStateStreaming:
		return "streaming"
	case StreamStateDone:
		return "done"
	case StreamStateFailed:
		return "failed"
	case StreamStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is Done or Failed.
func (s StreamState) Terminal() bool {
	return s == StreamStateDone || s == StreamStateFailed
}

// Stream uses a pull-based iterator pattern over one channel. Cancellation
// flows through the context passed to Dialer.Dial() or through Close().
//
// Next() behavior by state:
//   - Streaming/AwaitingFirstMessage: blocks for the next message and returns
//     an EventFragment or, for the terminal message, an EventDone.
//   - Done: io.EOF.
//   - Failed: the terminal *Error.
//   - Closed: ErrStreamClosed.
//
// Close() closes the channel with the normal close code when no terminal
// state was reached, so a deliberate cancel never reads as a failure.
type Stream interface {
	Next() (Event, error)
	State() StreamState
	Close() error
}

// Dialer opens streaming channels.
type Dialer interface {
	Dial(ctx context.Context, req Request) (Stream, error)
}

// Request identifies the endpoint of one streaming session.
type Request struct {
	Endpoint    string        // ws:// or wss:// URL
	IdleTimeout time.Duration // 0 = DefaultIdleTimeout
}

// Timeout returns the effective idle timeout.
func (r Request) Timeout() time.Duration {
	if r.IdleTimeout == 0 {
		return DefaultIdleTimeout
	}
	return r.IdleTimeout
}
