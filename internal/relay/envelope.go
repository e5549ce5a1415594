package relay

import (
	"encoding/json"
	"fmt"
)

// contentsEnvelope matches relays that wrap the page in a "contents" field,
// optionally carrying the upstream status alongside it.
type contentsEnvelope struct {
	Contents string `json:"contents"`
	Status   struct {
		HTTPCode int `json:"http_code"`
	} `json:"status"`
}

// dataEnvelope matches relays that nest the page under a "data" field.
type dataEnvelope struct {
	Data string `json:"data"`
}

// Normalize unwraps a relay response body into the markup string. Decoding is
// a tagged-union step: the declared envelope shape must match, otherwise the
// attempt fails closed and is treated as a relay failure, never as success.
func Normalize(env Envelope, body []byte) (string, error) {
	switch env {
	case EnvelopeDirect, EnvelopeRaw:
		return string(body), nil
	case EnvelopeContents:
		var wrapped contentsEnvelope
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return "", fmt.Errorf("decode contents envelope: %w", err)
		}
		if wrapped.Status.HTTPCode >= 400 {
			return "", fmt.Errorf("relay reports upstream status %d", wrapped.Status.HTTPCode)
		}
		if wrapped.Contents == "" {
			return "", fmt.Errorf("contents envelope is empty")
		}
		return wrapped.Contents, nil
	case EnvelopeData:
		var wrapped dataEnvelope
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return "", fmt.Errorf("decode data envelope: %w", err)
		}
		if wrapped.Data == "" {
			return "", fmt.Errorf("data envelope is empty")
		}
		return wrapped.Data, nil
	default:
		return "", fmt.Errorf("unknown envelope shape %q", env)
	}
}
