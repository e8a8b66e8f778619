// Package json decodes the wire formats of the streaming channel and the
// request/response API.
package json

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/trickle"
)

// Status values with special meaning on the streaming channel. Any other
// status marks an incremental fragment.
const (
	StatusError = "ERROR"
	StatusDone  = "DONE"
)

// Frame is one message received on the streaming channel.
type Frame struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Result  string `json:"result,omitempty"`
}

// IsError reports whether the server signaled a failure.
func (f Frame) IsError() bool { return f.Status == StatusError }

// IsDone reports whether the frame carries the final result.
func (f Frame) IsDone() bool { return f.Status == StatusDone }

// Event converts a non-error frame to its semantic event. It returns nil for
// error frames.
func (f Frame) Event() trickle.Event {
	switch {
	case f.IsError():
		return nil
	case f.IsDone():
		return trickle.EventDone{Result: f.Result}
	default:
		return trickle.EventFragment{Text: f.Message}
	}
}

// DecodeFrame parses a streaming channel message.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	return f, nil
}

// EncodeFrame serializes a frame. Used by servers and test doubles that speak
// the streaming protocol.
func EncodeFrame(f Frame) ([]byte, error) {
	return json.Marshal(f)
}
