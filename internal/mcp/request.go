// ABOUTME: Outbound tools/call request construction and request id generation.
// ABOUTME: Ids are clock based and only need to be unique within one process.

package mcp

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"
)

// IDSource hands out request ids.
type IDSource interface {
	Next() int64
}

// ClockIDs derives ids from the wall clock in milliseconds, bumping past the
// previous id when two calls land in the same millisecond.
type ClockIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewClockIDs returns an IDSource backed by time.Now.
func NewClockIDs() *ClockIDs {
	return &ClockIDs{now: time.Now}
}

// Next returns an id strictly greater than any previously returned.
func (c *ClockIDs) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}

// NewToolCallRequest builds a tools/call request for a namespaced tool.
// A nil argument map is sent as an empty object.
func NewToolCallRequest(id int64, name string, arguments map[string]any) (*Request, error) {
	if arguments == nil {
		arguments = map[string]any{}
	}
	params, err := json.Marshal(CallToolParams{Name: name, Arguments: arguments})
	if err != nil {
		return nil, err
	}
	return &Request{
		JSONRPC: Version,
		ID:      json.RawMessage(strconv.FormatInt(id, 10)),
		Method:  MethodToolsCall,
		Params:  params,
	}, nil
}

// NewListToolsRequest builds a tools/list request.
func NewListToolsRequest(id int64) *Request {
	return &Request{
		JSONRPC: Version,
		ID:      json.RawMessage(strconv.FormatInt(id, 10)),
		Method:  MethodToolsList,
		Params:  json.RawMessage("{}"),
	}
}
