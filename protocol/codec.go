package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// maxBodySize bounds the JSON bodies read from the controller.
const maxBodySize = 1 << 20

// EncodeJSON encodes v as a request body.
func EncodeJSON(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode error: %w", err)
	}
	return bytes.NewReader(data), nil
}

// DecodeJSON reads a JSON document from r into v. Surrounding whitespace and
// NUL bytes are ignored.
func DecodeJSON(r io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(r, maxBodySize))
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}
	if err := json.Unmarshal(trimBody(data), v); err != nil {
		return fmt.Errorf("decode error: %w", err)
	}
	return nil
}

// ErrorMessage extracts the message of a controller error body. It reports
// false for bodies that are not a JSON error document, such as pages
// injected by proxies or antivirus software.
func ErrorMessage(body []byte) (string, bool) {
	var resp ErrorResponse
	if err := json.Unmarshal(trimBody(body), &resp); err != nil || resp.Message == "" {
		return "", false
	}
	return resp.Message, true
}

func trimBody(data []byte) []byte {
	return bytes.Trim(data, " \t\r\n\x00")
}
