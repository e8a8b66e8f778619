// Package bubbletea provides a Bubble Tea TUI that streams fun facts into a
// scrollable viewport.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/trickle"
)

// FetchFunc runs one streaming session. The onEvent callback is called for
// each event after it has been applied to the display buffer. The function
// blocks until the session ends or the context is cancelled.
type FetchFunc func(ctx context.Context, onEvent func(trickle.Event)) error

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. When ctx is cancelled the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// FetchMsg asks the model to start a new session, superseding a running one.
type FetchMsg struct{}

// StreamEventMsg delivers a streaming event from session Gen.
type StreamEventMsg struct {
	Gen   uint64
	Event trickle.Event
}

// FetchDoneMsg signals that session Gen has ended.
type FetchDoneMsg struct {
	Gen uint64
	Err error
}
