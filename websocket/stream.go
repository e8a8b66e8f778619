package websocket

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/fwojciec/trickle"
	tricklejson "github.com/fwojciec/trickle/json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// stream implements [trickle.Stream] over one websocket connection.
//
// Next runs on the consumer's goroutine and is the only reader of the
// connection. Close and context cancellation may arrive from other
// goroutines; gorilla permits WriteControl and Close concurrently with a
// reader, and the state fields are guarded by mu.
type stream struct {
	conn   *websocket.Conn
	logger *zap.Logger
	stop   func() bool // detaches the context cancellation hook

	mu        sync.Mutex
	state     trickle.StreamState
	err       error // terminal error, if any
	cancelErr error // context error that closed the stream, if any
	fragments int

	closeOnce sync.Once
}

// Interface compliance check.
var _ trickle.Stream = (*stream)(nil)

func newStream(conn *websocket.Conn, logger *zap.Logger) *stream {
	return &stream{
		conn:   conn,
		logger: logger,
		state:  trickle.StreamStateAwaitingFirstMessage,
	}
}

// Next reads the next semantic event from the channel.
// Returns io.EOF once the session has completed successfully.
func (s *stream) Next() (trickle.Event, error) {
	s.mu.Lock()
	state, err := s.state, s.err
	s.mu.Unlock()

	switch state {
	case trickle.StreamStateDone:
		return nil, io.EOF
	case trickle.StreamStateFailed:
		return nil, err
	case trickle.StreamStateClosed:
		return nil, s.closedErr()
	}

	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return nil, s.readFailed(err)
	}

	// Only the first message needs this; clearing on every message keeps
	// the timeout a time-to-first-message bound with no per-fragment stall
	// detection.
	_ = s.conn.SetReadDeadline(time.Time{})

	frame, err := tricklejson.DecodeFrame(data)
	if err != nil {
		return nil, s.fail(trickle.KindTransport, trickle.CloseInternalError, fmt.Errorf("websocket: %w", err))
	}
	if frame.IsError() {
		return nil, s.fail(trickle.KindServer, trickle.CloseInternalError, errors.New("websocket: server signaled error"))
	}

	s.mu.Lock()
	if s.state == trickle.StreamStateClosed {
		s.mu.Unlock()
		return nil, s.closedErr()
	}
	if frame.IsDone() {
		s.state = trickle.StreamStateDone
		fragments := s.fragments
		s.mu.Unlock()
		s.logger.Debug("done", zap.Int("fragments", fragments))
		s.closeWith(trickle.CloseNormal, "")
		return frame.Event(), nil
	}
	s.state = trickle.StreamStateStreaming
	s.fragments++
	s.mu.Unlock()
	return frame.Event(), nil
}

// State returns the current stream state.
func (s *stream) State() trickle.StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close closes the channel. Before a terminal state it uses the normal close
// code, so the cancellation is not reported as a failure.
func (s *stream) Close() error {
	if s.stop != nil {
		s.stop()
	}
	s.mu.Lock()
	if !s.state.Terminal() && s.state != trickle.StreamStateClosed {
		s.state = trickle.StreamStateClosed
		s.logger.Debug("closed by caller")
	}
	s.mu.Unlock()
	s.closeWith(trickle.CloseNormal, "")
	return nil
}

// abort closes the stream after its context is cancelled.
func (s *stream) abort(cause error) {
	s.mu.Lock()
	if s.state.Terminal() || s.state == trickle.StreamStateClosed {
		s.mu.Unlock()
		return
	}
	s.state = trickle.StreamStateClosed
	s.cancelErr = cause
	s.mu.Unlock()
	s.logger.Debug("context cancelled", zap.Error(cause))
	s.closeWith(trickle.CloseNormal, "")
}

// readFailed maps a read error to the terminal outcome.
func (s *stream) readFailed(err error) error {
	s.mu.Lock()
	closed := s.state == trickle.StreamStateClosed
	s.mu.Unlock()
	if closed {
		return s.closedErr()
	}

	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		if ce.Code == trickle.CloseNormal {
			s.mu.Lock()
			s.state = trickle.StreamStateDone
			s.mu.Unlock()
			s.logger.Debug("closed by server")
			s.closeWith(trickle.CloseNormal, "")
			return io.EOF
		}
		return s.fail(trickle.KindAbnormalClose, ce.Code, fmt.Errorf("websocket: %w", err))
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return s.fail(trickle.KindTimeout, trickle.CloseInternalError, fmt.Errorf("websocket: no message before idle timeout: %w", err))
	}
	return s.fail(trickle.KindTransport, trickle.CloseInternalError, fmt.Errorf("websocket: %w", err))
}

// fail records the terminal error and closes the channel with code.
func (s *stream) fail(kind trickle.Kind, code int, err error) error {
	terr := &trickle.Error{Kind: kind, Code: code, Err: err}
	s.mu.Lock()
	if s.state == trickle.StreamStateClosed {
		s.mu.Unlock()
		return s.closedErr()
	}
	s.state = trickle.StreamStateFailed
	s.err = terr
	s.mu.Unlock()

	s.logger.Warn("session failed",
		zap.Stringer("kind", kind),
		zap.Int("code", code),
		zap.Error(err),
	)
	s.closeWith(closeCode(code), kind.String())
	return terr
}

// closeWith sends a close frame and releases the connection. Only the first
// call has any effect.
func (s *stream) closeWith(code int, text string) {
	s.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(code, text)
		_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		_ = s.conn.Close()
		s.logger.Debug("close", zap.Int("code", code))
	})
}

func (s *stream) closedErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelErr != nil {
		return fmt.Errorf("%w: %w", trickle.ErrStreamClosed, s.cancelErr)
	}
	return trickle.ErrStreamClosed
}

// closeCode maps codes that must not appear in a close frame to 1011.
func closeCode(code int) int {
	switch code {
	case websocket.CloseNoStatusReceived, websocket.CloseAbnormalClosure, websocket.CloseTLSHandshake:
		return trickle.CloseInternalError
	default:
		return code
	}
}
