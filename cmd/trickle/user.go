package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/trickle"
	"github.com/fwojciec/trickle/goldmark"
)

// lookupUser performs call and returns the indented profile. found is false
// when the API answers with an error detail, which is how it reports an
// unknown user.
func lookupUser(ctx context.Context, api trickle.API, call trickle.Call) (profile []byte, found bool, err error) {
	raw, err := api.Send(ctx, call)
	if err != nil {
		var apiErr *trickle.APIError
		if errors.As(err, &apiErr) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("lookup user: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, false, fmt.Errorf("lookup user: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), true, nil
}

// streamPlain runs one session and writes the sanitized final buffer to w. The
// failure text is written too, so the caller sees what the TUI would have
// shown.
func streamPlain(ctx context.Context, f *trickle.Fetcher, req trickle.Request, w io.Writer) error {
	fetchErr := f.Fetch(ctx, req)
	if _, err := fmt.Fprintln(w, goldmark.Sanitize(f.Buffer().String())); err != nil {
		return err
	}
	return fetchErr
}
