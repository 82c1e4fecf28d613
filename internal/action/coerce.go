// ABOUTME: Rebuilds structured tool arguments from the agent's string-only parameters.
// ABOUTME: Values that parse as JSON are used parsed; everything else stays a raw string.

package action

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// CoerceArguments converts agent parameters into a tools/call argument object.
//
// Entries whose value is absent, the literal "null", JSON null, or the empty
// string are dropped. A value that fails to parse as JSON is the common case
// for natural-language arguments and is kept verbatim.
func CoerceArguments(params []Parameter) map[string]any {
	args := make(map[string]any, len(params))
	for _, p := range params {
		if p.Value == nil || *p.Value == "null" {
			continue
		}
		raw := *p.Value

		if parsed, err := parseJSON(raw); err == nil {
			if parsed != nil {
				args[p.Name] = parsed
			}
			continue
		}

		if raw != "" {
			args[p.Name] = raw
		}
	}
	return args
}

var errTrailingData = errors.New("trailing data after JSON value")

// parseJSON decodes exactly one JSON value, keeping numbers as json.Number so
// integers wider than a float64 mantissa survive the round trip.
func parseJSON(s string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return v, nil
}
