package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/trickle"
	"github.com/fwojciec/trickle/goldmark"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

var _ tea.Model = Model{}

const (
	defaultTitle = "Fun fact"
	titleHeight  = 1
	statusHeight = 1
)

// Option configures a Model.
type Option func(*Model)

// WithTitle sets the heading shown above the viewport.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// Model is the Bubble Tea model for the trickle TUI.
type Model struct {
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model
	// Spinner animates while a session is running. Exported for test access.
	Spinner spinner.Model

	fetch  FetchFunc
	buf    *trickle.Buffer
	theme  trickle.Theme
	styles Styles
	title  string

	// gen numbers the sessions started by this model. Messages carrying
	// any other generation belong to a superseded session and are dropped.
	gen     uint64
	running bool
	cancel  context.CancelFunc
	eventCh chan trickle.Event
	doneCh  chan error
	err     error
	stopped bool // last session was cancelled by the user
	width   int
	ready   bool
}

// New creates a TUI Model that runs fetch and displays buf.
func New(fetch FetchFunc, buf *trickle.Buffer, theme trickle.Theme, opts ...Option) Model {
	styles := NewStyles(theme)
	sp := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(styles.Spinner),
	)
	m := Model{
		Spinner: sp,
		fetch:   fetch,
		buf:     buf,
		theme:   theme,
		styles:  styles,
		title:   defaultTitle,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Running returns whether a session is in progress.
func (m Model) Running() bool { return m.running }

// Err returns the error of the last session, if it failed.
func (m Model) Err() error { return m.err }

// Generation returns the number of sessions the model has started.
func (m Model) Generation() uint64 { return m.gen }

// Init implements tea.Model. The first session starts immediately.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return FetchMsg{} }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case FetchMsg:
		return m.startFetch()

	case StreamEventMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m = m.refresh()
		if m.eventCh != nil {
			return m, listenForEvent(m.gen, m.eventCh, m.doneCh)
		}
		return m, nil

	case FetchDoneMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.running = false
		m.cancel = nil
		m.eventCh = nil
		m.doneCh = nil
		switch {
		case failed(msg.Err):
			m.err = msg.Err
		case msg.Err != nil:
			m.stopped = true
		}
		m = m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(runewidth.Truncate(m.title, m.width, "…")))
	b.WriteString("\n")
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	vpHeight := max(msg.Height-titleHeight-statusHeight, 1)
	m.width = msg.Width

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	// Markdown wraps to the viewport width, so a resize re-renders.
	m.Viewport.SetContent(m.renderContent())
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		return m.startFetch()

	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "a":
			return m.startFetch()
		case "q":
			if !m.running {
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// startFetch begins a new session. A running session is cancelled and its
// remaining messages are ignored.
func (m Model) startFetch() (Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	wasRunning := m.running

	m.gen++
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan trickle.Event, 256)
	m.doneCh = make(chan error, 1)
	m.running = true
	m.err = nil
	m.stopped = false

	cmds := []tea.Cmd{
		runFetch(m.fetch, ctx, m.eventCh, m.doneCh),
		listenForEvent(m.gen, m.eventCh, m.doneCh),
	}
	if !wasRunning {
		cmds = append(cmds, m.Spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// refresh re-renders the buffer into the viewport, following the tail.
func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) renderContent() string {
	text := m.buf.String()
	switch {
	case m.buf.State() == trickle.StreamStateFailed:
		return lipgloss.NewStyle().Width(m.Viewport.Width).Inherit(m.styles.Error).Render(text)
	case !m.buf.Received():
		return m.styles.Muted.Render(text)
	}
	return goldmark.Render(text, m.Viewport.Width, m.theme)
}

func (m Model) statusLine() string {
	var prefix string
	if m.running {
		prefix = m.Spinner.View() + " "
	}
	avail := max(m.width-lipgloss.Width(prefix), 0)

	var count int
	if m.buf.Received() && m.buf.State() != trickle.StreamStateFailed {
		count = uniseg.GraphemeClusterCount(m.buf.String())
	}

	switch {
	case m.err != nil:
		text := fmt.Sprintf("Error: %s · a: retry · q: quit", describe(m.err))
		return m.styles.Error.Render(runewidth.Truncate(text, avail, "…"))
	case m.running:
		text := fmt.Sprintf("Streaming %d chars · a: another · ctrl+c: cancel", count)
		return prefix + m.styles.Muted.Render(runewidth.Truncate(text, avail, "…"))
	case m.gen == 0:
		return m.styles.Muted.Render(runewidth.Truncate("a: fetch · q: quit", avail, "…"))
	case m.stopped:
		text := fmt.Sprintf("Cancelled · %d chars · a: another · q: quit", count)
		return m.styles.Muted.Render(runewidth.Truncate(text, avail, "…"))
	}
	text := fmt.Sprintf("Done · %d chars · a: another · q: quit", count)
	return m.styles.Success.Render(runewidth.Truncate(text, avail, "…"))
}

// failed reports whether err ended a session with failure, as opposed to a
// cancellation or supersession.
func failed(err error) bool {
	return err != nil &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, trickle.ErrStreamClosed) &&
		!errors.Is(err, trickle.ErrSuperseded)
}

func describe(err error) string {
	if kind := trickle.ErrorKind(err); kind != 0 {
		return kind.String()
	}
	return err.Error()
}

// runFetch runs the session in a goroutine and signals completion.
func runFetch(fetch FetchFunc, ctx context.Context, eventCh chan<- trickle.Event, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := fetch(ctx, func(e trickle.Event) {
			select {
			case eventCh <- e:
			case <-ctx.Done():
			}
		})
		close(eventCh)
		doneCh <- err
		return nil
	}
}

// listenForEvent waits for the next event of session gen. When the channel
// closes, it reads the error from doneCh and returns FetchDoneMsg.
func listenForEvent(gen uint64, ch <-chan trickle.Event, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return FetchDoneMsg{Gen: gen, Err: <-doneCh}
		}
		return StreamEventMsg{Gen: gen, Event: evt}
	}
}
