package remote

import (
	"bytes"
	"encoding/json"
	"errors"
)

// envelope is the uniform response wrapper the backend emits.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

var errEmptyData = errors.New("response data is empty")

// decodeData unmarshals the envelope's data field into v, tolerating the
// extra array layer some endpoints wrap around a single object: an object
// decodes into a list target as a one-element list, and a one-element list
// decodes into an object target as its sole element.
func decodeData(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return errEmptyData
	}

	if err := json.Unmarshal(raw, v); err == nil {
		return nil
	}

	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
		if len(items) == 0 {
			return errEmptyData
		}
		return json.Unmarshal(items[0], v)
	}

	wrapped := make([]byte, 0, len(raw)+2)
	wrapped = append(wrapped, '[')
	wrapped = append(wrapped, raw...)
	wrapped = append(wrapped, ']')
	return json.Unmarshal(wrapped, v)
}
