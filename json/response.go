package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fwojciec/trickle"
)

// errorDTO is the error shape returned by the API. Detail is usually a string
// but validation failures carry a list of objects.
type errorDTO struct {
	Detail json.RawMessage `json:"detail"`
}

// DecodeResponse turns an HTTP status and body into a payload or an
// *trickle.APIError. A body with a non-null detail field is an error even
// when the status is 2xx.
func DecodeResponse(status int, body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)

	// Bodies that are not a JSON object cannot carry a detail; they fall
	// through to the status and validity checks below.
	var dto errorDTO
	if len(trimmed) > 0 && trimmed[0] == '{' {
		_ = json.Unmarshal(trimmed, &dto)
	}
	if detail := detailText(dto.Detail); detail != "" {
		return nil, &trickle.APIError{Status: status, Detail: detail}
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, &trickle.APIError{Status: status, Detail: string(trimmed)}
	}
	if len(trimmed) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("decode response: invalid JSON payload")
	}
	return json.RawMessage(trimmed), nil
}

func detailText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// EncodeBody serializes a request body. A nil body encodes to nil.
func EncodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return data, nil
}
