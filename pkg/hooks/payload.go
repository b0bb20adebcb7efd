package hooks

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// ToolCallPayload is the PreToolUse event read from stdin
type ToolCallPayload struct {
	SessionID string          `json:"session_id,omitempty"`
	CWD       string          `json:"cwd,omitempty"`
	ToolName  string          `json:"tool_name"`
	ToolInput json.RawMessage `json:"tool_input"`
}

// InputString returns a string field of the tool input, or "" when absent.
// Non-string scalars are rendered as text.
func (p ToolCallPayload) InputString(key string) string {
	if len(p.ToolInput) == 0 {
		return ""
	}
	r := gjson.GetBytes(p.ToolInput, key)
	if r.IsObject() || r.IsArray() {
		return ""
	}
	return r.String()
}

// FilterResult is the verdict for one tool call
type FilterResult struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason,omitempty"`
}

// StopResult is printed on stdout by the Stop hook
type StopResult struct {
	OK       bool   `json:"ok,omitempty"`
	Decision string `json:"decision,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// DecisionReject keeps the agent working instead of stopping
const DecisionReject = "REJECT"
