// ABOUTME: Typed handlers decode the argument object into a Go struct before running.
// ABOUTME: SchemaFor reflects the same struct into the advertised input schema.

package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"

	"github.com/2389/agentcore-bridge/internal/mcp"
)

// Typed adapts fn into a Handler. Arguments are decoded with weak typing so
// "5" satisfies an int field and 5 satisfies a string field.
func Typed[T any](fn func(ctx context.Context, in T) (*mcp.ToolResult, error)) Handler {
	return func(ctx context.Context, args json.RawMessage) (*mcp.ToolResult, error) {
		var in T
		if err := DecodeArgs(args, &in); err != nil {
			return nil, err
		}
		return fn(ctx, in)
	}
}

// DecodeArgs decodes a JSON argument object into out using json field tags.
func DecodeArgs(args json.RawMessage, out any) error {
	raw := map[string]any{}
	if len(args) > 0 && string(args) != "null" {
		dec := json.NewDecoder(bytes.NewReader(args))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("building argument decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// SchemaFor returns the JSON Schema describing T as a flat object.
func SchemaFor[T any]() json.RawMessage {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
		Anonymous:      true,
	}
	var zero T
	s := r.Reflect(zero)
	s.Version = ""

	data, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Sprintf("reflecting schema for %T: %v", zero, err))
	}
	return data
}
