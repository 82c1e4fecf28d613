// ABOUTME: Wire types for agent action-group invocations and their responses.
// ABOUTME: Parameter values arrive as strings; absent values decode to nil.

package action

// MessageVersion is stamped on every response envelope.
const MessageVersion = "1.0"

// Agent identifies the calling agent.
type Agent struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Alias   string `json:"alias"`
	Version string `json:"version"`
}

// Parameter is one named argument as transmitted by the agent.
type Parameter struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Value *string `json:"value"`
}

// Invocation is a single function call from the agent.
type Invocation struct {
	MessageVersion          string            `json:"messageVersion"`
	Agent                   Agent             `json:"agent"`
	InputText               string            `json:"inputText"`
	SessionID               string            `json:"sessionId"`
	ActionGroup             string            `json:"actionGroup"`
	Function                string            `json:"function"`
	Parameters              []Parameter       `json:"parameters"`
	SessionAttributes       map[string]string `json:"sessionAttributes"`
	PromptSessionAttributes map[string]string `json:"promptSessionAttributes"`
}

// Response is returned to the agent for every invocation, including failures.
type Response struct {
	MessageVersion          string            `json:"messageVersion"`
	Response                FunctionOutcome   `json:"response"`
	SessionAttributes       map[string]string `json:"sessionAttributes"`
	PromptSessionAttributes map[string]string `json:"promptSessionAttributes"`
}

// FunctionOutcome names the function that ran and carries its text body.
type FunctionOutcome struct {
	ActionGroup      string           `json:"actionGroup"`
	Function         string           `json:"function"`
	FunctionResponse FunctionResponse `json:"functionResponse"`
}

type FunctionResponse struct {
	ResponseBody ResponseBody `json:"responseBody"`
}

type ResponseBody struct {
	Text TextBody `json:"TEXT"`
}

type TextBody struct {
	Body string `json:"body"`
}

// Body returns the text body of the response.
func (r *Response) Body() string {
	return r.Response.FunctionResponse.ResponseBody.Text.Body
}

// StringParam is a convenience for building parameters in callers and tests.
func StringParam(name, value string) Parameter {
	return Parameter{Name: name, Type: "string", Value: &value}
}
