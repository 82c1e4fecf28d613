// ABOUTME: ToolResult is the output of a tool execution: text segments plus isError.
// ABOUTME: TextResult and ErrorResult build the two shapes handlers return.

package mcp

import "strings"

// ContentTypeText is the only content type produced by this system.
const ContentTypeText = "text"

// Content is one typed segment of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolResult is the result of a tool execution.
type ToolResult struct {
	IsError bool      `json:"isError,omitempty"`
	Content []Content `json:"content"`
}

// TextResult returns a successful result with one text segment per argument.
func TextResult(texts ...string) *ToolResult {
	content := make([]Content, 0, len(texts))
	for _, t := range texts {
		content = append(content, Content{Type: ContentTypeText, Text: t})
	}
	return &ToolResult{Content: content}
}

// ErrorResult returns a failed result carrying a single descriptive segment.
func ErrorResult(message string) *ToolResult {
	return &ToolResult{
		IsError: true,
		Content: []Content{{Type: ContentTypeText, Text: message}},
	}
}

// Text joins the text of every segment with newlines.
func (r *ToolResult) Text() string {
	parts := make([]string, len(r.Content))
	for i, c := range r.Content {
		parts[i] = c.Text
	}
	return strings.Join(parts, "\n")
}
