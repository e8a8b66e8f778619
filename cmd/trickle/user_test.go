package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fwojciec/trickle"
	"github.com/fwojciec/trickle/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupUser_Found(t *testing.T) {
	t.Parallel()
	api := &mock.API{SendFn: func(_ context.Context, call trickle.Call) (json.RawMessage, error) {
		assert.Equal(t, "/user/alice", call.Route)
		return json.RawMessage(`{"username":"alice"}`), nil
	}}

	profile, found, err := lookupUser(context.Background(), api, trickle.DefaultConfig().UserCall("alice"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "{\n  \"username\": \"alice\"\n}\n", string(profile))
}

func TestLookupUser_APIErrorMeansMissing(t *testing.T) {
	t.Parallel()
	api := &mock.API{SendFn: func(context.Context, trickle.Call) (json.RawMessage, error) {
		return nil, &trickle.APIError{Status: 404, Detail: "User not found"}
	}}

	_, found, err := lookupUser(context.Background(), api, trickle.DefaultConfig().UserCall("ghost"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLookupUser_TransportErrorPropagates(t *testing.T) {
	t.Parallel()
	api := &mock.API{SendFn: func(context.Context, trickle.Call) (json.RawMessage, error) {
		return nil, errors.New("connection refused")
	}}

	_, _, err := lookupUser(context.Background(), api, trickle.DefaultConfig().UserCall("alice"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStreamPlain(t *testing.T) {
	t.Parallel()

	t.Run("writes final text", func(t *testing.T) {
		t.Parallel()
		stream := &mock.Script{Events: []trickle.Event{
			trickle.EventFragment{Text: "Ghost "},
			trickle.EventDone{Result: "Ghost was never here."},
		}}
		d := &mock.Dialer{DialFn: func(_ context.Context, req trickle.Request) (trickle.Stream, error) {
			assert.Contains(t, req.Endpoint, "username=ghost")
			return stream, nil
		}}
		f := trickle.NewFetcher(d, trickle.NewBuffer())

		var out bytes.Buffer
		err := streamPlain(context.Background(), f, trickle.DefaultConfig().MissingUserRequest("ghost"), &out)
		require.NoError(t, err)
		assert.Equal(t, "Ghost was never here.\n", out.String())
	})

	t.Run("writes failure text and returns error", func(t *testing.T) {
		t.Parallel()
		stream := &mock.Script{Err: &trickle.Error{Kind: trickle.KindServer, Code: trickle.CloseInternalError}}
		d := &mock.Dialer{DialFn: func(context.Context, trickle.Request) (trickle.Stream, error) {
			return stream, nil
		}}
		f := trickle.NewFetcher(d, trickle.NewBuffer())

		var out bytes.Buffer
		err := streamPlain(context.Background(), f, trickle.DefaultConfig().FunFactRequest(), &out)
		assert.Equal(t, trickle.KindServer, trickle.ErrorKind(err))
		assert.Equal(t, trickle.FailureText+"\n", out.String())
	})
}
