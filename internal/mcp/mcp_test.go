// ABOUTME: Tests for JSON-RPC envelopes, tool results, request ids and the client.
// ABOUTME: The client is exercised against a fake transport.

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/agentcore-bridge/internal/transport"
)

type fakeTransport struct {
	mu      sync.Mutex
	url     string
	body    []byte
	reply   *transport.Reply
	err     error
	callCnt int
}

func (f *fakeTransport) Post(_ context.Context, url string, body []byte) (*transport.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callCnt++
	f.url = url
	f.body = body
	return f.reply, f.err
}

type fixedIDs struct{ id int64 }

func (f fixedIDs) Next() int64 { return f.id }

func TestNewToolCallRequest(t *testing.T) {
	req, err := NewToolCallRequest(42, "target___tool", map[string]any{"n": 1})
	require.NoError(t, err)

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":42,"method":"tools/call","params":{"name":"target___tool","arguments":{"n":1}}}`, string(data))
}

func TestNewToolCallRequest_NilArgumentsSentAsObject(t *testing.T) {
	req, err := NewToolCallRequest(1, "t___x", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"t___x","arguments":{}}`, string(req.Params))
}

func TestResponse_ResultXorError(t *testing.T) {
	ok, err := NewResult(json.RawMessage(`7`), map[string]any{"tools": []any{}})
	require.NoError(t, err)
	assert.True(t, ok.Valid())
	assert.Nil(t, ok.Error)

	bad := NewError(json.RawMessage(`"abc"`), CodeMethodNotFound, "Method not found")
	assert.True(t, bad.Valid())
	assert.Empty(t, bad.Result)

	data, err := json.Marshal(bad)
	require.NoError(t, err)
	assert.Equal(t, `{"jsonrpc":"2.0","id":"abc","error":{"code":-32601,"message":"Method not found"}}`, string(data))

	assert.False(t, (&Response{JSONRPC: Version}).Valid())
	assert.False(t, (&Response{JSONRPC: Version, Result: json.RawMessage(`{}`), Error: &Error{}}).Valid())
}

func TestEchoID(t *testing.T) {
	assert.Equal(t, "0", string(EchoID(nil)))
	assert.Equal(t, "0", string(EchoID(json.RawMessage("null"))))
	assert.Equal(t, "5", string(EchoID(json.RawMessage("5"))))
	assert.Equal(t, `"x"`, string(EchoID(json.RawMessage(`"x"`))))
}

func TestToolResult_JSONShape(t *testing.T) {
	data, err := json.Marshal(TextResult("hello"))
	require.NoError(t, err)
	assert.Equal(t, `{"content":[{"type":"text","text":"hello"}]}`, string(data))

	data, err = json.Marshal(ErrorResult("boom"))
	require.NoError(t, err)
	assert.Equal(t, `{"isError":true,"content":[{"type":"text","text":"boom"}]}`, string(data))

	assert.Equal(t, "a\nb", TextResult("a", "b").Text())
}

func TestClockIDs_Monotonic(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)
	ids := &ClockIDs{now: func() time.Time { return fixed }}

	first := ids.Next()
	assert.Equal(t, fixed.UnixMilli(), first)
	assert.Equal(t, first+1, ids.Next())
	assert.Equal(t, first+2, ids.Next())
}

func TestClient_CallTool(t *testing.T) {
	ft := &fakeTransport{reply: &transport.Reply{
		StatusCode: 200,
		Body:       []byte(`{"jsonrpc":"2.0","id":9,"result":{"content":[{"type":"text","text":"ok"}]}}`),
	}}
	c, err := NewClient(ClientConfig{URL: "https://gw.example/mcp", Transport: ft, IDs: fixedIDs{9}})
	require.NoError(t, err)

	resp, err := c.CallTool(context.Background(), "t___x", map[string]any{"q": "v"})
	require.NoError(t, err)
	assert.Equal(t, "https://gw.example/mcp", ft.url)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"t___x","arguments":{"q":"v"}}}`, string(ft.body))
	assert.Nil(t, resp.Error)
	assert.JSONEq(t, `{"content":[{"type":"text","text":"ok"}]}`, string(resp.Result))
}

func TestClient_Call_PreservesUpstreamErrorCode(t *testing.T) {
	ft := &fakeTransport{reply: &transport.Reply{
		StatusCode: 200,
		Body:       []byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32042,"message":"quota exceeded"}}`),
	}}
	c, err := NewClient(ClientConfig{URL: "u", Transport: ft})
	require.NoError(t, err)

	resp, err := c.ListTools(context.Background())
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32042, resp.Error.Code)
	assert.Equal(t, "quota exceeded", resp.Error.Error())
}

func TestClient_Call_Failures(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		ft := &fakeTransport{err: errors.New("dial tcp: refused")}
		c, _ := NewClient(ClientConfig{URL: "u", Transport: ft})
		_, err := c.ListTools(context.Background())
		assert.EqualError(t, err, "dial tcp: refused")
	})

	t.Run("non-success status", func(t *testing.T) {
		ft := &fakeTransport{reply: &transport.Reply{StatusCode: 403}}
		c, _ := NewClient(ClientConfig{URL: "u", Transport: ft})
		_, err := c.ListTools(context.Background())
		var statusErr *transport.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, "403 Forbidden", err.Error())
	})

	t.Run("undecodable body", func(t *testing.T) {
		ft := &fakeTransport{reply: &transport.Reply{StatusCode: 200, Body: []byte("<html>")}}
		c, _ := NewClient(ClientConfig{URL: "u", Transport: ft})
		_, err := c.ListTools(context.Background())
		assert.ErrorContains(t, err, "decoding MCP response")
	})
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(ClientConfig{Transport: &fakeTransport{}})
	assert.Error(t, err)
	_, err = NewClient(ClientConfig{URL: "u"})
	assert.Error(t, err)
}
