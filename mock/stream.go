package mock

import (
	"io"
	"sync"

	"github.com/fwojciec/trickle"
)

// Interface compliance check.
var _ trickle.Stream = (*Stream)(nil)

// Stream is a test double for trickle.Stream.
// Set the function fields for the methods you need. NextFn panics when nil to
// catch missing setup. CloseFn and StateFn are nil-safe (no-op and zero value)
// because callers commonly defer stream.Close().
type Stream struct {
	NextFn  func() (trickle.Event, error)
	StateFn func() trickle.StreamState
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (trickle.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateIdle if StateFn is nil.
func (s *Stream) State() trickle.StreamState {
	if s.StateFn == nil {
		return trickle.StreamStateIdle
	}
	return s.StateFn()
}

// Close delegates to CloseFn. Returns nil if CloseFn is nil.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Script is a scripted trickle.Stream. Next returns the events in order, then
// Err (io.EOF when nil). After Close, a blocked or subsequent Next returns
// trickle.ErrStreamClosed.
type Script struct {
	Events []trickle.Event
	Err    error
	// Block, when set, makes Next wait for Close after the events run out
	// instead of returning Err.
	Block bool

	mu     sync.Mutex
	pos    int
	closed chan struct{}
	once   sync.Once
	closes int
}

// Interface compliance check.
var _ trickle.Stream = (*Script)(nil)

func (s *Script) init() {
	s.once.Do(func() { s.closed = make(chan struct{}) })
}

// Next returns the next scripted event.
func (s *Script) Next() (trickle.Event, error) {
	s.init()
	s.mu.Lock()
	select {
	case <-s.closed:
		s.mu.Unlock()
		return nil, trickle.ErrStreamClosed
	default:
	}
	if s.pos < len(s.Events) {
		evt := s.Events[s.pos]
		s.pos++
		s.mu.Unlock()
		return evt, nil
	}
	s.mu.Unlock()

	if s.Block {
		<-s.closed
		return nil, trickle.ErrStreamClosed
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return nil, io.EOF
}

// State reports Closed after Close and Streaming otherwise.
func (s *Script) State() trickle.StreamState {
	s.init()
	select {
	case <-s.closed:
		return trickle.StreamStateClosed
	default:
		return trickle.StreamStateStreaming
	}
}

// Close unblocks Next. It is safe to call more than once.
func (s *Script) Close() error {
	s.init()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	if s.closes == 1 {
		close(s.closed)
	}
	return nil
}

// Closed reports whether Close has been called.
func (s *Script) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes > 0
}
