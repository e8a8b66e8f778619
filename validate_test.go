package trickle_test

import (
	"testing"
	"time"

	"github.com/fwojciec/trickle"
	"github.com/stretchr/testify/assert"
)

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     trickle.Request
		wantErr bool
	}{
		{"ws endpoint", trickle.Request{Endpoint: "ws://localhost:8000/ws/fun-fact"}, false},
		{"wss endpoint with timeout", trickle.Request{Endpoint: "wss://example.com/ws", IdleTimeout: time.Second}, false},
		{"empty endpoint", trickle.Request{}, true},
		{"http scheme", trickle.Request{Endpoint: "http://example.com/ws"}, true},
		{"missing host", trickle.Request{Endpoint: "ws:///ws"}, true},
		{"unparseable", trickle.Request{Endpoint: "ws://%zz"}, true},
		{"negative timeout", trickle.Request{Endpoint: "ws://localhost/ws", IdleTimeout: -time.Second}, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, trickle.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCall_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, trickle.Call{Route: "/user/alice"}.Validate())
	assert.NoError(t, trickle.Call{Route: "/friends", Method: "POST", Body: map[string]string{"to": "bob"}}.Validate())
	assert.ErrorIs(t, trickle.Call{}.Validate(), trickle.ErrValidation)
	assert.ErrorIs(t, trickle.Call{Route: "/x", Method: "TRACE"}.Validate(), trickle.ErrValidation)
}
