package websocket

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fwojciec/trickle"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Interface compliance check.
var _ trickle.Dialer = (*Dialer)(nil)

// Dialer implements [trickle.Dialer].
type Dialer struct {
	dialer *websocket.Dialer
	header http.Header
	logger *zap.Logger
}

// Option configures a [Dialer].
type Option func(*Dialer)

// WithHeader sets headers sent with the opening handshake.
func WithHeader(h http.Header) Option {
	return func(d *Dialer) { d.header = h }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dialer) { d.logger = l }
}

// WithHandshakeTimeout bounds the opening handshake.
func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(d *Dialer) { d.dialer.HandshakeTimeout = timeout }
}

// New creates a new [Dialer] with the given options.
func New(opts ...Option) *Dialer {
	d := &Dialer{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: defaultHandshakeTimeout,
		},
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dial opens a channel to req.Endpoint and arms the idle deadline. Cancelling
// ctx after Dial returns closes the channel with the normal close code.
func (d *Dialer) Dial(ctx context.Context, req trickle.Request) (trickle.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("websocket: %w", err)
	}

	logger := d.logger.With(
		zap.String("session", uuid.NewString()),
		zap.String("endpoint", req.Endpoint),
	)
	logger.Debug("dialing")

	conn, resp, err := d.dialer.DialContext(ctx, req.Endpoint, d.header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
			err = fmt.Errorf("%w (HTTP %d)", err, resp.StatusCode)
		}
		logger.Warn("dial failed", zap.Error(err))
		if ctx.Err() != nil {
			return nil, fmt.Errorf("websocket: %w", ctx.Err())
		}
		return nil, &trickle.Error{
			Kind: trickle.KindTransport,
			Code: websocket.CloseAbnormalClosure,
			Err:  fmt.Errorf("websocket: dial: %w", err),
		}
	}

	timeout := req.Timeout()
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		conn.Close()
		return nil, &trickle.Error{
			Kind: trickle.KindTransport,
			Code: websocket.CloseAbnormalClosure,
			Err:  fmt.Errorf("websocket: arm idle deadline: %w", err),
		}
	}
	logger.Debug("open", zap.Duration("idle_timeout", timeout))

	s := newStream(conn, logger)
	s.stop = context.AfterFunc(ctx, func() { s.abort(ctx.Err()) })
	return s, nil
}
