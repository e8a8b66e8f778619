package trickle

import (
	"strings"
	"sync"
)

// Buffer is the display buffer for streamed text. It is owned by the UI and
// mutated only through a Fetcher.
//
// Every mutation names the session generation it belongs to. Mutations from a
// generation other than the current one are ignored, so a superseded session
// can never change what the UI shows. Within a generation the text only grows
// until the single terminal transition (Replace or Fail), after which it is
// frozen until the next Reset.
type Buffer struct {
	mu          sync.Mutex
	gen         uint64
	text        strings.Builder
	received    bool
	placeholder string
	state       StreamState
	onChange    func()
}

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// OnChange registers a callback invoked after every accepted mutation.
func (b *Buffer) OnChange(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

// Reset clears the buffer for a new session. placeholder is shown by String
// until the first fragment arrives.
func (b *Buffer) Reset(gen uint64, placeholder string) {
	b.mu.Lock()
	b.gen = gen
	b.text.Reset()
	b.received = false
	b.placeholder = placeholder
	b.state = StreamStateConnecting
	fn := b.onChange
	b.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Append adds a fragment. It reports whether the mutation was accepted.
func (b *Buffer) Append(gen uint64, fragment string) bool {
	return b.mutate(gen, func() {
		b.text.WriteString(fragment)
		b.received = true
		b.state = StreamStateStreaming
	})
}

// Replace sets the final text wholesale and marks the session done.
func (b *Buffer) Replace(gen uint64, result string) bool {
	return b.mutate(gen, func() {
		b.text.Reset()
		b.text.WriteString(result)
		b.received = true
		b.state = StreamStateDone
	})
}

// Finish marks the session done without changing its text.
func (b *Buffer) Finish(gen uint64) bool {
	return b.mutate(gen, func() {
		b.state = StreamStateDone
	})
}

// Fail overwrites the text with FailureText and marks the session failed.
// Previously received fragments are discarded.
func (b *Buffer) Fail(gen uint64) bool {
	return b.mutate(gen, func() {
		b.text.Reset()
		b.text.WriteString(FailureText)
		b.received = true
		b.state = StreamStateFailed
	})
}

func (b *Buffer) mutate(gen uint64, fn func()) bool {
	b.mu.Lock()
	if gen != b.gen || b.state.Terminal() {
		b.mu.Unlock()
		return false
	}
	fn()
	onChange := b.onChange
	b.mu.Unlock()
	if onChange != nil {
		onChange()
	}
	return true
}

// String returns the text to display.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.received {
		return b.placeholder
	}
	return b.text.String()
}

// Received reports whether the current session has produced any text, as
// opposed to showing its placeholder.
func (b *Buffer) Received() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.received
}

// State returns the state of the current session as seen by the buffer.
func (b *Buffer) State() StreamState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Generation returns the generation of the current session.
func (b *Buffer) Generation() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gen
}
