// ABOUTME: Gateway metadata access: the namespaced tool name under either key convention.
// ABOUTME: Candidate paths are tried in order and the first non-empty string wins.

package dispatch

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Metadata keys used by the two client-context conventions.
const (
	KeyClientContext      = "clientContext"
	KeyClientContextSnake = "client_context"
)

// ToolNameField holds the namespaced tool name inside the custom map.
const ToolNameField = "bedrockAgentCoreToolName"

var toolNamePaths = []string{
	KeyClientContext + ".custom." + ToolNameField,
	KeyClientContextSnake + ".custom." + ToolNameField,
}

// GatewayToolName returns the namespaced tool name carried by metadata, or
// "" when neither path holds a non-empty string.
func GatewayToolName(metadata json.RawMessage) string {
	if len(metadata) == 0 {
		return ""
	}
	for _, path := range toolNamePaths {
		v := gjson.GetBytes(metadata, path)
		if v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

// NewMetadata wraps a client-context custom map under key.
func NewMetadata(key string, custom map[string]string) json.RawMessage {
	if custom == nil {
		custom = map[string]string{}
	}
	data, err := json.Marshal(map[string]any{
		key: map[string]any{"custom": custom},
	})
	if err != nil {
		return nil
	}
	return data
}
