// ABOUTME: Tests for event classification, processRequest and the two delivery modes.
// ABOUTME: The registry holds a fixed clock tool plus stubs for failure paths.

package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/agentcore-bridge/internal/mcp"
	"github.com/2389/agentcore-bridge/internal/metrics"
	"github.com/2389/agentcore-bridge/internal/tools"
)

const fixedTime = "2024-01-01 12:00:00 JST"

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	reg, err := tools.NewRegistry(
		&tools.Tool{
			Descriptor: tools.Descriptor{
				Name:        "getCurrentTime",
				Description: "Get the current time",
				InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
			},
			Handler: func(context.Context, json.RawMessage) (*mcp.ToolResult, error) {
				return mcp.TextResult(fixedTime), nil
			},
		},
		&tools.Tool{
			Descriptor: tools.Descriptor{Name: "echo", Description: "Echo arguments"},
			Handler: func(_ context.Context, args json.RawMessage) (*mcp.ToolResult, error) {
				return mcp.TextResult(string(args)), nil
			},
		},
		&tools.Tool{
			Descriptor: tools.Descriptor{Name: "broken", Description: "Always fails"},
			Handler: func(context.Context, json.RawMessage) (*mcp.ToolResult, error) {
				return nil, errors.New("disk on fire")
			},
		},
	)
	require.NoError(t, err)

	d, err := New(Config{Registry: reg, Metrics: metrics.New()})
	require.NoError(t, err)
	return d
}

func gatewayMetadata(key, name string) json.RawMessage {
	return NewMetadata(key, map[string]string{ToolNameField: name})
}

func decodeResponse(t *testing.T, data []byte) *mcp.Response {
	t.Helper()
	var resp mcp.Response
	require.NoError(t, json.Unmarshal(data, &resp))
	require.True(t, resp.Valid(), "response must carry exactly one of result and error: %s", data)
	return &resp
}

func TestGatewayToolName(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
		want     string
	}{
		{"camel", `{"clientContext":{"custom":{"bedrockAgentCoreToolName":"t___a"}}}`, "t___a"},
		{"snake", `{"client_context":{"custom":{"bedrockAgentCoreToolName":"t___b"}}}`, "t___b"},
		{"camel wins", `{"clientContext":{"custom":{"bedrockAgentCoreToolName":"first"}},"client_context":{"custom":{"bedrockAgentCoreToolName":"second"}}}`, "first"},
		{"empty camel falls through", `{"clientContext":{"custom":{"bedrockAgentCoreToolName":""}},"client_context":{"custom":{"bedrockAgentCoreToolName":"second"}}}`, "second"},
		{"non-string ignored", `{"clientContext":{"custom":{"bedrockAgentCoreToolName":42}}}`, ""},
		{"absent", `{"clientContext":{"custom":{}}}`, ""},
		{"none", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GatewayToolName(json.RawMessage(tt.metadata)))
		})
	}
}

func TestDispatch_GatewayMetadata(t *testing.T) {
	d := newTestDispatcher(t)

	for _, key := range []string{KeyClientContext, KeyClientContextSnake} {
		t.Run(key, func(t *testing.T) {
			out := d.Encode(context.Background(), Invocation{
				Event:    json.RawMessage(`{}`),
				Metadata: gatewayMetadata(key, "current-time-target-v2___getCurrentTime"),
			})
			assert.JSONEq(t, `{"content":[{"type":"text","text":"2024-01-01 12:00:00 JST"}]}`, string(out))
			assert.NotContains(t, string(out), "jsonrpc")
		})
	}
}

func TestDispatch_GatewayMetadata_PassesArguments(t *testing.T) {
	d := newTestDispatcher(t)
	out := d.Dispatch(context.Background(), Invocation{
		Event:    json.RawMessage(`{"q":"hi"}`),
		Metadata: gatewayMetadata(KeyClientContext, "target___echo"),
	})
	res, ok := out.(*mcp.ToolResult)
	require.True(t, ok)
	assert.JSONEq(t, `{"q":"hi"}`, res.Text())
}

func TestDispatch_GatewayMetadata_Errors(t *testing.T) {
	d := newTestDispatcher(t)

	tests := []struct {
		name string
		tool string
		want string
	}{
		{"empty after resolve", "target___", "Missing tool name in gateway context"},
		{"unknown", "target___doesNotExist", "Method not found: doesNotExist"},
		{"tool failure", "target___broken", "Error: disk on fire"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := d.Dispatch(context.Background(), Invocation{
				Event:    json.RawMessage(`{}`),
				Metadata: gatewayMetadata(KeyClientContextSnake, tt.tool),
			})
			res, ok := out.(*mcp.ToolResult)
			require.True(t, ok)
			assert.True(t, res.IsError)
			assert.Equal(t, tt.want, res.Text())
		})
	}
}

func TestDispatch_RawJSONRPC_ToolsList(t *testing.T) {
	d := newTestDispatcher(t)
	out := d.Encode(context.Background(), Invocation{
		Event: json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`),
	})

	resp := decodeResponse(t, out)
	assert.JSONEq(t, `1`, string(resp.ID))

	var result mcp.ListToolsResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Tools, 3)
	assert.Equal(t, "getCurrentTime", result.Tools[0].Name)
	assert.Equal(t, "Get the current time", result.Tools[0].Description)
	assert.JSONEq(t, `{"type":"object","properties":{}}`, string(result.Tools[0].InputSchema))
	assert.JSONEq(t, `{"type":"object"}`, string(result.Tools[1].InputSchema))
}

func TestDispatch_ToolsCall(t *testing.T) {
	d := newTestDispatcher(t)
	out := d.Encode(context.Background(), Invocation{
		Event: json.RawMessage(`{"jsonrpc":"2.0","id":"req-9","method":"tools/call","params":{"name":"current-time-target-v2___getCurrentTime","arguments":{}}}`),
	})

	assert.JSONEq(t, `{
		"jsonrpc": "2.0",
		"id": "req-9",
		"result": {"content": [{"type": "text", "text": "2024-01-01 12:00:00 JST"}]}
	}`, string(out))
}

func TestDispatch_ToolsCall_ToolFailureIsResult(t *testing.T) {
	d := newTestDispatcher(t)
	resp := decodeResponse(t, d.Encode(context.Background(), Invocation{
		Event: json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"broken"}}`),
	}))

	require.Nil(t, resp.Error)
	assert.JSONEq(t, `{"isError":true,"content":[{"type":"text","text":"Error: disk on fire"}]}`, string(resp.Result))
}

func TestDispatch_ToolsCall_UnknownKeepsOriginalName(t *testing.T) {
	d := newTestDispatcher(t)
	resp := decodeResponse(t, d.Encode(context.Background(), Invocation{
		Event: json.RawMessage(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"unknown-target___doesNotExist"}}`),
	}))

	require.NotNil(t, resp.Error)
	assert.Equal(t, mcp.CodeMethodNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "unknown-target___doesNotExist")
}

func TestDispatch_Envelope(t *testing.T) {
	d := newTestDispatcher(t)

	t.Run("string body", func(t *testing.T) {
		resp := decodeResponse(t, d.Encode(context.Background(), Invocation{
			Event: json.RawMessage(`{"body":"{\"jsonrpc\":\"2.0\",\"id\":4,\"method\":\"tools/list\"}"}`),
		}))
		assert.Nil(t, resp.Error)
		assert.JSONEq(t, `4`, string(resp.ID))
	})

	t.Run("object body", func(t *testing.T) {
		resp := decodeResponse(t, d.Encode(context.Background(), Invocation{
			Event: json.RawMessage(`{"body":{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"getCurrentTime"}}}`),
		}))
		assert.Nil(t, resp.Error)
		assert.Contains(t, string(resp.Result), fixedTime)
	})

	t.Run("undecodable string body", func(t *testing.T) {
		resp := decodeResponse(t, d.Encode(context.Background(), Invocation{
			Event: json.RawMessage(`{"body":"{not json"}`),
		}))
		require.NotNil(t, resp.Error)
		assert.Equal(t, mcp.CodeInternalError, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "Internal error: ")
		assert.JSONEq(t, `0`, string(resp.ID))
	})
}

func TestDispatch_InvalidRequests(t *testing.T) {
	d := newTestDispatcher(t)

	tests := []struct {
		name   string
		event  string
		code   int
		wantID string
	}{
		{"empty event", ``, mcp.CodeInvalidRequest, `0`},
		{"empty object", `{}`, mcp.CodeInvalidRequest, `0`},
		{"array", `[1]`, mcp.CodeInvalidRequest, `0`},
		{"wrong version in envelope", `{"body":{"jsonrpc":"1.0","id":8,"method":"tools/list"}}`, mcp.CodeInvalidRequest, `8`},
		{"missing version in envelope", `{"body":{"id":"x","method":"tools/call"}}`, mcp.CodeInvalidRequest, `"x"`},
		{"unknown method", `{"jsonrpc":"2.0","id":6,"method":"resources/list"}`, mcp.CodeMethodNotFound, `6`},
		{"null id", `{"jsonrpc":"2.0","id":null,"method":"ping"}`, mcp.CodeMethodNotFound, `0`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := decodeResponse(t, d.Encode(context.Background(), Invocation{Event: json.RawMessage(tt.event)}))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.JSONEq(t, tt.wantID, string(resp.ID))
		})
	}
}

func TestProcessRequest_VersionCheckedBeforeMethod(t *testing.T) {
	d := newTestDispatcher(t)
	for _, method := range []string{"tools/list", "tools/call", "other"} {
		resp := d.ProcessRequest(context.Background(),
			json.RawMessage(`{"jsonrpc":"2.1","id":1,"method":"`+method+`"}`))
		require.NotNil(t, resp.Error, method)
		assert.Equal(t, mcp.CodeInvalidRequest, resp.Error.Code, method)
		assert.Equal(t, "Invalid Request: missing jsonrpc 2.0", resp.Error.Message)
	}
}

func TestDispatch_RecoversPanicsAsInternalError(t *testing.T) {
	d := newTestDispatcher(t)
	// A dispatcher without a registry panics on the first lookup.
	d.registry = nil

	invocations := map[string]Invocation{
		"jsonrpc":  {Event: json.RawMessage(`{"jsonrpc":"2.0","id":9,"method":"tools/list"}`)},
		"envelope": {Event: json.RawMessage(`{"body":{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"t___getCurrentTime"}}}`)},
		"gateway":  {Event: json.RawMessage(`{}`), Metadata: gatewayMetadata(KeyClientContext, "t___getCurrentTime")},
	}
	for name, inv := range invocations {
		t.Run(name, func(t *testing.T) {
			var resp *mcp.Response
			require.NotPanics(t, func() {
				resp = decodeResponse(t, d.Encode(context.Background(), inv))
			})
			require.NotNil(t, resp.Error)
			assert.Nil(t, resp.Result)
			assert.Equal(t, mcp.CodeInternalError, resp.Error.Code)
			assert.Contains(t, resp.Error.Message, "Internal error:")
		})
	}
}

func TestProcessRequest_RecoversPanic(t *testing.T) {
	d := newTestDispatcher(t)
	d.registry = nil

	var resp *mcp.Response
	require.NotPanics(t, func() {
		resp = d.ProcessRequest(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":3,"method":"tools/list"}`))
	})
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, mcp.CodeInternalError, resp.Error.Code)
	assert.True(t, resp.Valid())
}

// recordingWriter captures streamed bytes and whether Close was called.
type recordingWriter struct {
	bytes.Buffer
	closed bool
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestStream_MatchesBuffered(t *testing.T) {
	d := newTestDispatcher(t)

	invocations := []Invocation{
		{Event: json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)},
		{Event: json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"t___getCurrentTime"}}`)},
		{Event: json.RawMessage(`{"body":"{\"jsonrpc\":\"2.0\",\"id\":3,\"method\":\"tools/call\",\"params\":{\"name\":\"unknown-target___doesNotExist\"}}"}`)},
		{Event: json.RawMessage(`{}`), Metadata: gatewayMetadata(KeyClientContext, "t___getCurrentTime")},
		{Event: json.RawMessage(`{}`), Metadata: gatewayMetadata(KeyClientContext, "t___missing")},
		{Event: json.RawMessage(`{"jsonrpc":"1.0","method":"tools/list"}`)},
		{Event: nil},
	}

	for i, inv := range invocations {
		buffered := d.Encode(context.Background(), inv)

		w := &recordingWriter{}
		require.NoError(t, d.Stream(context.Background(), inv, w))

		assert.True(t, w.closed, "invocation %d: stream must be closed", i)
		assert.Equal(t, buffered, w.Bytes(), "invocation %d", i)
	}
}

type failingWriter struct{ closed bool }

func (w *failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }
func (w *failingWriter) Close() error              { w.closed = true; return nil }

func TestStream_WriteErrorStillCloses(t *testing.T) {
	d := newTestDispatcher(t)
	w := &failingWriter{}

	err := d.Stream(context.Background(), Invocation{Event: json.RawMessage(`{}`)}, w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
	assert.True(t, w.closed)
}

func TestNew_RequiresRegistry(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
