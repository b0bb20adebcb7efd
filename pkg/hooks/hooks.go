// Package hooks implements the Claude Code hook programs shipped with the
// skills repository: a PreToolUse filter that blocks dangerous or wasteful
// tool calls, and a Stop check that keeps an autonomous sprint running while
// stories remain.
package hooks

// HookType represents the Claude Code lifecycle event a hook handles
type HookType string

// Hook type constants name the events wired in config/settings.json
const (
	HookTypePreToolUse HookType = "PreToolUse"
	HookTypeStop       HookType = "Stop"
)

// Exit codes understood by Claude Code
const (
	// ExitAllow lets the tool call proceed
	ExitAllow = 0
	// ExitBlock rejects the tool call and feeds stderr back to the model
	ExitBlock = 2
)
