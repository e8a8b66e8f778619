package mock_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/fwojciec/trickle"
	"github.com/fwojciec/trickle/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialer_Dial(t *testing.T) {
	t.Parallel()
	t.Run("delegates to DialFn", func(t *testing.T) {
		t.Parallel()
		var s mock.Stream
		d := mock.Dialer{
			DialFn: func(ctx context.Context, req trickle.Request) (trickle.Stream, error) {
				assert.Equal(t, "ws://example.com/fact", req.Endpoint)
				return &s, nil
			},
		}
		got, err := d.Dial(context.Background(), trickle.Request{Endpoint: "ws://example.com/fact"})
		require.NoError(t, err)
		assert.Equal(t, &s, got)
	})

	t.Run("panics when DialFn not set", func(t *testing.T) {
		t.Parallel()
		d := mock.Dialer{}
		assert.Panics(t, func() {
			_, _ = d.Dial(context.Background(), trickle.Request{})
		})
	})
}

func TestAPI_Send(t *testing.T) {
	t.Parallel()
	wantErr := &trickle.APIError{Status: 404, Detail: "User not found"}
	a := mock.API{
		SendFn: func(ctx context.Context, call trickle.Call) (json.RawMessage, error) {
			return nil, wantErr
		},
	}
	_, err := a.Send(context.Background(), trickle.Call{Route: "/user/bob"})
	assert.ErrorIs(t, err, wantErr)
}

func TestStream_NilSafe(t *testing.T) {
	t.Parallel()
	s := mock.Stream{}
	assert.Equal(t, trickle.StreamStateIdle, s.State())
	assert.NoError(t, s.Close())
	assert.Panics(t, func() { _, _ = s.Next() })
}

func TestStream_Delegates(t *testing.T) {
	t.Parallel()
	wantErr := errors.New("close error")
	s := mock.Stream{
		NextFn:  func() (trickle.Event, error) { return trickle.EventFragment{Text: "a"}, nil },
		StateFn: func() trickle.StreamState { return trickle.StreamStateStreaming },
		CloseFn: func() error { return wantErr },
	}
	evt, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, trickle.EventFragment{Text: "a"}, evt)
	assert.Equal(t, trickle.StreamStateStreaming, s.State())
	assert.ErrorIs(t, s.Close(), wantErr)
}

func TestScript(t *testing.T) {
	t.Parallel()

	t.Run("events then EOF", func(t *testing.T) {
		t.Parallel()
		s := &mock.Script{Events: []trickle.Event{trickle.EventFragment{Text: "a"}}}
		evt, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, trickle.EventFragment{Text: "a"}, evt)
		_, err = s.Next()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("events then error", func(t *testing.T) {
		t.Parallel()
		wantErr := &trickle.Error{Kind: trickle.KindServer, Code: trickle.CloseInternalError}
		s := &mock.Script{Err: wantErr}
		_, err := s.Next()
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("block until closed", func(t *testing.T) {
		t.Parallel()
		s := &mock.Script{Block: true}
		errCh := make(chan error, 1)
		go func() {
			_, err := s.Next()
			errCh <- err
		}()
		time.Sleep(10 * time.Millisecond)
		require.NoError(t, s.Close())
		require.NoError(t, s.Close())
		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, trickle.ErrStreamClosed)
		case <-time.After(time.Second):
			t.Fatal("Next did not unblock")
		}
		assert.True(t, s.Closed())
		assert.Equal(t, trickle.StreamStateClosed, s.State())
	})
}
