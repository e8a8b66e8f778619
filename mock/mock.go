// Package mock provides test doubles for trickle interfaces using function fields.
package mock

import (
	"context"
	"encoding/json"

	"github.com/fwojciec/trickle"
)

// Interface compliance checks.
var (
	_ trickle.Dialer = (*Dialer)(nil)
	_ trickle.API    = (*API)(nil)
)

// Dialer is a test double for trickle.Dialer.
// Set DialFn before calling Dial.
type Dialer struct {
	DialFn func(ctx context.Context, req trickle.Request) (trickle.Stream, error)
}

// Dial delegates to DialFn.
func (d *Dialer) Dial(ctx context.Context, req trickle.Request) (trickle.Stream, error) {
	return d.DialFn(ctx, req)
}

// API is a test double for trickle.API.
// Set SendFn before calling Send.
type API struct {
	SendFn func(ctx context.Context, call trickle.Call) (json.RawMessage, error)
}

// Send delegates to SendFn.
func (a *API) Send(ctx context.Context, call trickle.Call) (json.RawMessage, error) {
	return a.SendFn(ctx, call)
}
