package trickle

import (
	"net/url"
	"path"
	"strings"
	"time"
)

// Config holds client settings. Zero fields in a loaded file keep the
// defaults from DefaultConfig.
type Config struct {
	APIURL      string        // base URL of the request/response API
	StreamURL   string        // base URL of the streaming endpoints
	Routes      Routes        // endpoint paths
	IdleTimeout time.Duration // time allowed before the first message
	LogPath     string        // empty disables logging
	Theme       Theme
}

// Routes names the backend endpoints the client uses.
type Routes struct {
	FunFact     string // streaming
	MissingUser string // streaming; receives the username as a query parameter
	User        string // request/response; the username is appended as a path segment
}

// DefaultConfig returns settings for a backend running locally.
func DefaultConfig() Config {
	return Config{
		APIURL:    "http://localhost:8000",
		StreamURL: "ws://localhost:8000",
		Routes: Routes{
			FunFact:     "/ws/fun-fact",
			MissingUser: "/ws/missing-user",
			User:        "/user",
		},
		IdleTimeout: DefaultIdleTimeout,
		Theme:       DefaultTheme(),
	}
}

// FunFactRequest returns the streaming request for a fun fact.
func (c Config) FunFactRequest() Request {
	return Request{
		Endpoint:    joinURL(c.StreamURL, c.Routes.FunFact, nil),
		IdleTimeout: c.IdleTimeout,
	}
}

// MissingUserRequest returns the streaming request for the narrative shown
// when username does not exist.
func (c Config) MissingUserRequest(username string) Request {
	q := url.Values{"username": []string{username}}
	return Request{
		Endpoint:    joinURL(c.StreamURL, c.Routes.MissingUser, q),
		IdleTimeout: c.IdleTimeout,
	}
}

// UserCall returns the call that looks up username.
func (c Config) UserCall(username string) Call {
	return Call{
		Route:  path.Join(c.Routes.User, url.PathEscape(username)),
		Method: "GET",
	}
}

func joinURL(base, route string, q url.Values) string {
	s := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(route, "/")
	if len(q) > 0 {
		s += "?" + q.Encode()
	}
	return s
}
