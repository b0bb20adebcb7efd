package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"runtime"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/djnsty23/claude-auto-dev/pkg/logger"
)

var dangerousBashPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)rm\s+(-[a-z]*r[a-z]*\s+(-[a-z]*f|/)|(-[a-z]*f[a-z]*\s+-[a-z]*r))`),
	regexp.MustCompile(`(?i)rm\s+--recursive`),
	regexp.MustCompile(`(?i)rm\s+--force\s+--recursive`),
	regexp.MustCompile(`(?i)rm\s+--force\s+-r`),
	regexp.MustCompile(`(?i)rm\s+-r\s+[^-]`),
	regexp.MustCompile(`(?i)find\s+/\s+-delete`),
	regexp.MustCompile(`(?i)dd\s+if=.*/dev/`),
	regexp.MustCompile(`(?i)mkfs\.`),
	regexp.MustCompile(`(?i)chmod\s+-R\s+000\s+/`),
	regexp.MustCompile(`(?i)git\s+reset\s+--hard`),
	regexp.MustCompile(`(?i)git\s+push\s+(--force|-f\b|.*--force|.*\s-f\b)`),
	regexp.MustCompile(`(?i)git\s+clean\s+(-[a-z]*f|--force)`),
	regexp.MustCompile(`(?i)git\s+checkout\s+(\.|--\s+\.)`),
	regexp.MustCompile(`(?i)git\s+restore\s+\.`),
	regexp.MustCompile(`(?i)git\s+stash\s+(drop|clear)`),
	// force delete only; -d is safe
	regexp.MustCompile(`git\s+branch\s+-D`),
	regexp.MustCompile(`(?i)DROP\s+(TABLE|DATABASE)`),
	regexp.MustCompile(`(?i)curl.*\|\s*(ba)?sh`),
	regexp.MustCompile(`(?i)wget.*\|\s*(ba)?sh`),
}

var dangerousWindowsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)format\s+c:`),
	regexp.MustCompile(`(?i)del\s+/s\s+/q\s+c:`),
	regexp.MustCompile(`(?i)diskpart`),
}

var protectedFilePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[/\\]\.claude[/\\]hooks[/\\]`),
	regexp.MustCompile(`[/\\]\.claude[/\\]settings\.json$`),
}

// DefaultSkipReadPatterns match generated or bulky files that should be
// searched rather than read. Paths are matched with forward slashes.
var DefaultSkipReadPatterns = []string{
	"*node_modules*",
	"*dist/*",
	"*build/*",
	"*.git/*",
	"*package-lock.json*",
	"*yarn.lock*",
	"*pnpm-lock.yaml*",
	"*.next/*",
	"*coverage/*",
	"*.turbo/*",
}

// Filter decides whether a PreToolUse call may proceed
type Filter struct {
	platform string
	skipRead []glob.Glob
}

// FilterOption configures a Filter
type FilterOption func(*Filter) error

// WithPlatform sets the GOOS value used to enable platform specific patterns
func WithPlatform(platform string) FilterOption {
	return func(f *Filter) error {
		f.platform = platform
		return nil
	}
}

// WithSkipReadPatterns replaces the default skip-read globs
func WithSkipReadPatterns(patterns ...string) FilterOption {
	return func(f *Filter) error {
		compiled, err := compileGlobs(patterns)
		if err != nil {
			return err
		}
		f.skipRead = compiled
		return nil
	}
}

// NewFilter creates a Filter for the current platform with the default patterns
func NewFilter(opts ...FilterOption) (*Filter, error) {
	skipRead, err := compileGlobs(DefaultSkipReadPatterns)
	if err != nil {
		return nil, err
	}

	f := &Filter{
		platform: runtime.GOOS,
		skipRead: skipRead,
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, errors.Wrap(err, "failed to apply filter option")
		}
	}
	return f, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid skip-read pattern %q", pattern)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

// Evaluate returns the verdict for a single tool call
func (f *Filter) Evaluate(payload ToolCallPayload) FilterResult {
	switch payload.ToolName {
	case "Bash":
		command := payload.InputString("command")
		if command == "" {
			return FilterResult{}
		}
		if matchAny(dangerousBashPatterns, command) ||
			(f.platform == "windows" && matchAny(dangerousWindowsPatterns, command)) {
			return FilterResult{
				Blocked: true,
				Reason:  fmt.Sprintf("Blocked potentially dangerous command: %s", command),
			}
		}

	case "Write", "Edit":
		filePath := payload.InputString("file_path")
		if matchAny(protectedFilePatterns, filePath) {
			return FilterResult{
				Blocked: true,
				Reason: fmt.Sprintf("Blocked: Cannot modify security-critical file: %s\n"+
					"Use 'update dev' to sync from repo instead.", filePath),
			}
		}

	case "Read":
		filePath := payload.InputString("file_path")
		if filePath == "" {
			return FilterResult{}
		}
		normalized := strings.ReplaceAll(filePath, `\`, "/")
		for _, g := range f.skipRead {
			if g.Match(normalized) {
				return FilterResult{
					Blocked: true,
					Reason:  fmt.Sprintf("Skipping generated/large file: %s (use targeted search instead)", filePath),
				}
			}
		}
	}

	return FilterResult{}
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// RunPreTool reads one tool call from stdin and returns the process exit
// code. Unparseable input and read failures allow the call.
func (f *Filter) RunPreTool(ctx context.Context, stdin io.Reader, stderr io.Writer) int {
	log := logger.G(ctx).WithField("hook", HookTypePreToolUse)

	input, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "pre-tool-filter error: %s\n", err)
		return ExitAllow
	}

	var payload ToolCallPayload
	if err := json.Unmarshal(input, &payload); err != nil {
		log.WithError(err).Debug("ignoring unparseable tool call")
		return ExitAllow
	}

	result := f.Evaluate(payload)
	if !result.Blocked {
		log.WithField("tool", payload.ToolName).Debug("tool call allowed")
		return ExitAllow
	}

	log.WithField("tool", payload.ToolName).Debug("tool call blocked")
	fmt.Fprintf(stderr, "%s\n", result.Reason)
	return ExitBlock
}
