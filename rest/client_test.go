package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/trickle"
	"github.com/fwojciec/trickle/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Send(t *testing.T) {
	t.Parallel()

	t.Run("get returns payload", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/user/alice", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			assert.Empty(t, r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"username":"alice","first_name":"Alice"}`)
		}))
		t.Cleanup(srv.Close)

		c := rest.New(srv.URL + "/")
		got, err := c.Send(context.Background(), trickle.Call{Route: "/user/alice"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"username":"alice","first_name":"Alice"}`, string(got))
	})

	t.Run("post encodes body and sends token", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "bob", body["username"])
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":7}`)
		}))
		t.Cleanup(srv.Close)

		c := rest.New(srv.URL, rest.WithToken("tok"))
		got, err := c.Send(context.Background(), trickle.Call{
			Route:  "friends/request",
			Method: http.MethodPost,
			Body:   map[string]string{"username": "bob"},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":7}`, string(got))
	})

	t.Run("detail becomes APIError", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"User not found"}`)
		}))
		t.Cleanup(srv.Close)

		_, err := rest.New(srv.URL).Send(context.Background(), trickle.Call{Route: "/user/ghost"})
		var apiErr *trickle.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
		assert.Equal(t, "User not found", apiErr.Detail)
		assert.Contains(t, err.Error(), "GET /user/ghost")
	})

	t.Run("invalid call is rejected before sending", func(t *testing.T) {
		t.Parallel()
		var hits int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
		t.Cleanup(srv.Close)

		_, err := rest.New(srv.URL).Send(context.Background(), trickle.Call{})
		assert.ErrorIs(t, err, trickle.ErrValidation)
		assert.Zero(t, hits)
	})

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := rest.New(url).Send(context.Background(), trickle.Call{Route: "/user/alice"})
		require.Error(t, err)
		var apiErr *trickle.APIError
		assert.False(t, errors.As(err, &apiErr))
	})

	t.Run("uses custom http client", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `[]`)
		}))
		t.Cleanup(srv.Close)

		c := rest.New(srv.URL, rest.WithHTTPClient(srv.Client()))
		got, err := c.Send(context.Background(), trickle.Call{Route: "/friends"})
		require.NoError(t, err)
		assert.Equal(t, "[]", string(got))
	})
}
