package trickle

import (
	"fmt"
	"net/url"
)

// Validate checks universal constraints on Request.
func (r Request) Validate() error {
	if r.Endpoint == "" {
		return fmt.Errorf("endpoint is required: %w", ErrValidation)
	}
	u, err := url.Parse(r.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint %q: %v: %w", r.Endpoint, err, ErrValidation)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("endpoint scheme must be ws or wss, got %q: %w", u.Scheme, ErrValidation)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint %q has no host: %w", r.Endpoint, ErrValidation)
	}
	if r.IdleTimeout < 0 {
		return fmt.Errorf("idle timeout must be non-negative, got %s: %w", r.IdleTimeout, ErrValidation)
	}
	return nil
}

// Validate checks that a Call can be sent.
func (c Call) Validate() error {
	if c.Route == "" {
		return fmt.Errorf("route is required: %w", ErrValidation)
	}
	switch c.Method {
	case "", "GET", "POST", "PUT", "PATCH", "DELETE":
	default:
		return fmt.Errorf("unsupported method %q: %w", c.Method, ErrValidation)
	}
	return nil
}
