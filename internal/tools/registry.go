// ABOUTME: Static, read-only tool registry built once at process start.
// ABOUTME: tools/list and tools/call both consult it, so they cannot disagree.

package tools

import (
	"errors"
	"fmt"
)

// ErrToolCollision indicates two tools share a name.
var ErrToolCollision = errors.New("tool name collision")

// ErrInvalidTool indicates a tool without a name or handler.
var ErrInvalidTool = errors.New("invalid tool")

// Registry maps tool names to tools. It is immutable after construction and
// safe for concurrent lookups without locking.
type Registry struct {
	tools map[string]*Tool
	order []string
}

// NewRegistry validates and stores tools in the given order.
func NewRegistry(tools ...*Tool) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]*Tool, len(tools)),
		order: make([]string, 0, len(tools)),
	}

	for _, t := range tools {
		if t == nil || t.Descriptor.Name == "" || t.Handler == nil {
			return nil, ErrInvalidTool
		}
		name := t.Descriptor.Name
		if _, exists := r.tools[name]; exists {
			return nil, fmt.Errorf("%w: tool '%s' already registered", ErrToolCollision, name)
		}
		r.tools[name] = t
		r.order = append(r.order, name)
	}

	return r, nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Descriptors returns every descriptor in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.order))
	for i, name := range r.order {
		out[i] = r.tools[name].Descriptor
	}
	return out
}

// Names returns every tool name in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}
