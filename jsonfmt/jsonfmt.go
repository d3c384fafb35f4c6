// Package jsonfmt pretty-prints JSON payloads for display.
package jsonfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Indent is the per-level indentation.
const Indent = "  "

// Format validates body as a single JSON value and returns it indented.
// Object keys come out sorted; number literals are kept as sent.
func Format(body []byte) (string, error) {
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("decoding json: %w", err)
	}
	if dec.More() {
		return "", fmt.Errorf("decoding json: unexpected data after top-level value")
	}

	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding json: %w", err)
	}
	return strings.TrimSuffix(out.String(), "\n"), nil
}

// Lines formats body and splits the result into display lines.
func Lines(body []byte) ([]string, error) {
	s, err := Format(body)
	if err != nil {
		return nil, err
	}
	return strings.Split(s, "\n"), nil
}
