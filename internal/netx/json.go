package netx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const excerptLimit = 100

// ParseJSONSafely reads the whole body once, closes it and decodes it into v.
// An empty or blank body yields ErrEmptyBody; anything that is not JSON
// yields ErrInvalidJSON with a short excerpt of the offending text.
func ParseJSONSafely(resp *http.Response, v any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return decodeBody(body, v)
}

func decodeBody(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return ErrEmptyBody
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidJSON, excerpt(body))
	}
	return nil
}

// DecodeLenient returns the body as a JSON object, or an empty map when it
// cannot be read or is not an object. Used for error bodies.
func DecodeLenient(resp *http.Response) map[string]any {
	defer resp.Body.Close()

	out := map[string]any{}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return out
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return map[string]any{}
	}
	return out
}

func excerpt(b []byte) string {
	if len(b) <= excerptLimit {
		return string(b)
	}
	return string(b[:excerptLimit]) + "..."
}
