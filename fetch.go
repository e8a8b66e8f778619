package trickle

import (
	"context"
	"errors"
	"io"
	"sync"
)

// Fetcher runs streaming sessions against a Dialer and mirrors their output
// into a Buffer. At most one session is active at a time: starting a new
// fetch closes the previous channel with the normal close code.
type Fetcher struct {
	dialer Dialer
	buf    *Buffer

	mu     sync.Mutex
	gen    uint64
	active Stream
}

// NewFetcher creates a Fetcher that writes into buf.
func NewFetcher(dialer Dialer, buf *Buffer) *Fetcher {
	return &Fetcher{dialer: dialer, buf: buf}
}

// Buffer returns the display buffer the Fetcher writes into.
func (f *Fetcher) Buffer() *Buffer { return f.buf }

// FetchOption configures a single Fetch invocation.
type FetchOption func(*fetchConfig)

type fetchConfig struct {
	onEvent     func(Event)
	onComplete  func(ok bool)
	placeholder string
}

// WithEventHandler sets a callback that receives each streaming event after it
// has been applied to the buffer. Events from a superseded session are not
// delivered.
func WithEventHandler(h func(Event)) FetchOption {
	return func(c *fetchConfig) {
		c.onEvent = h
	}
}

// WithCompletion sets a callback invoked exactly once when the fetch ends.
// ok is true only for a terminal success.
func WithCompletion(h func(ok bool)) FetchOption {
	return func(c *fetchConfig) {
		c.onComplete = h
	}
}

// WithPlaceholder sets the text shown before the first fragment arrives.
func WithPlaceholder(text string) FetchOption {
	return func(c *fetchConfig) {
		c.placeholder = text
	}
}

// Fetch starts a new session and blocks until it reaches a terminal state, is
// superseded by another Fetch, or ctx is cancelled. It returns nil on success,
// ErrSuperseded when replaced, the context error on cancellation, and the
// stream's terminal error (usually an *Error) otherwise.
func (f *Fetcher) Fetch(ctx context.Context, req Request, opts ...FetchOption) error {
	var cfg fetchConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	gen := f.supersede()
	f.buf.Reset(gen, cfg.placeholder)

	err := f.run(ctx, gen, req, &cfg)
	if cfg.onComplete != nil {
		cfg.onComplete(err == nil)
	}
	return err
}

// supersede starts a new generation and closes the previous session's channel.
func (f *Fetcher) supersede() uint64 {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	prev := f.active
	f.active = nil
	f.mu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
	return gen
}

func (f *Fetcher) run(ctx context.Context, gen uint64, req Request, cfg *fetchConfig) error {
	if err := req.Validate(); err != nil {
		f.buf.Fail(gen)
		return err
	}

	stream, err := f.dialer.Dial(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			f.buf.Finish(gen)
			return ctx.Err()
		}
		f.buf.Fail(gen)
		return err
	}
	defer stream.Close()

	if !f.adopt(gen, stream) {
		return ErrSuperseded
	}
	defer f.release(stream)

	for {
		evt, err := stream.Next()
		if err == io.EOF {
			f.buf.Finish(gen)
			return nil
		}
		if err != nil {
			return f.terminate(ctx, gen, err)
		}

		var accepted bool
		switch e := evt.(type) {
		case EventFragment:
			accepted = f.buf.Append(gen, e.Text)
		case EventDone:
			accepted = f.buf.Replace(gen, e.Result)
		}
		if !accepted && f.superseded(gen) {
			return ErrSuperseded
		}
		if cfg.onEvent != nil {
			cfg.onEvent(evt)
		}
	}
}

// terminate maps a stream error to the fetch result.
func (f *Fetcher) terminate(ctx context.Context, gen uint64, err error) error {
	switch {
	case f.superseded(gen):
		return ErrSuperseded
	case errors.Is(err, ErrStreamClosed) || ctx.Err() != nil:
		// Deliberate cancellation closes with the normal code and keeps
		// whatever text was received.
		f.buf.Finish(gen)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	default:
		f.buf.Fail(gen)
		return err
	}
}

func (f *Fetcher) adopt(gen uint64, s Stream) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen != gen {
		return false
	}
	f.active = s
	return true
}

func (f *Fetcher) release(s Stream) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == s {
		f.active = nil
	}
}

func (f *Fetcher) superseded(gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen != gen
}

// Cancel closes the active session, if any, with the normal close code.
func (f *Fetcher) Cancel() {
	f.mu.Lock()
	s := f.active
	f.active = nil
	f.mu.Unlock()
	if s != nil {
		_ = s.Close()
	}
}
