package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/djnsty23/claude-auto-dev/pkg/logger"
)

// DefaultStaleAfter is the flag age after which a sprint is considered crashed
const DefaultStaleAfter = 2 * time.Hour

// SprintCompleteReason is returned when auto mode is active with no pending stories
const SprintCompleteReason = "[Auto-Dev] Sprint complete - running smart next action"

// StopCheck blocks the agent from stopping while auto mode is active
type StopCheck struct {
	flagPath   string
	prdPath    string
	staleAfter time.Duration
	now        func() time.Time
}

// StopOption configures a StopCheck
type StopOption func(*StopCheck) error

// WithHomeDir sets the directory holding .claude/auto-active
func WithHomeDir(home string) StopOption {
	return func(s *StopCheck) error {
		if home == "" {
			return errors.New("home directory must not be empty")
		}
		s.flagPath = filepath.Join(home, ".claude", "auto-active")
		return nil
	}
}

// WithPRDPath sets the location of prd.json
func WithPRDPath(path string) StopOption {
	return func(s *StopCheck) error {
		s.prdPath = path
		return nil
	}
}

// WithStaleAfter overrides the stale flag threshold
func WithStaleAfter(d time.Duration) StopOption {
	return func(s *StopCheck) error {
		s.staleAfter = d
		return nil
	}
}

// WithClock sets the time source
func WithClock(now func() time.Time) StopOption {
	return func(s *StopCheck) error {
		s.now = now
		return nil
	}
}

// NewStopCheck creates a StopCheck for the current user and working directory
func NewStopCheck(opts ...StopOption) (*StopCheck, error) {
	s := &StopCheck{
		prdPath:    "prd.json",
		staleAfter: DefaultStaleAfter,
		now:        time.Now,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, errors.Wrap(err, "failed to apply stop check option")
		}
	}

	if s.flagPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "failed to resolve home directory")
		}
		s.flagPath = filepath.Join(home, ".claude", "auto-active")
	}

	return s, nil
}

// Evaluate removes a stale flag and decides whether stopping is allowed.
// Progress notes for the user are written to stderr.
func (s *StopCheck) Evaluate(ctx context.Context, stderr io.Writer) StopResult {
	log := logger.G(ctx).WithField("hook", HookTypeStop)

	if info, err := os.Stat(s.flagPath); err == nil {
		if s.now().Sub(info.ModTime()) > s.staleAfter {
			if err := os.Remove(s.flagPath); err != nil {
				log.WithError(err).Warn("failed to remove stale auto-active flag")
			} else {
				fmt.Fprintf(stderr, "[Auto-Dev] Removed stale auto-active flag (>%s old)\n", formatHours(s.staleAfter))
			}
		}
	}

	if _, err := os.Stat(s.flagPath); err != nil {
		return StopResult{OK: true}
	}

	pending, err := s.pendingStories()
	if err != nil {
		fmt.Fprintf(stderr, "[Auto-Dev] prd.json parse error: %s\n", err)
	}
	log.WithField("pending", len(pending)).Debug("auto mode active")

	if len(pending) > 0 {
		fmt.Fprintf(stderr, "[Auto-Dev] Auto mode active. %d tasks remaining. Continuing...\n", len(pending))
		return StopResult{
			Decision: DecisionReject,
			Reason:   fmt.Sprintf("%d tasks remaining. Next: %s. Continue working.", len(pending), pending[0]),
		}
	}

	fmt.Fprintln(stderr, "[Auto-Dev] Sprint complete. Running IDLE detection...")
	return StopResult{
		Decision: DecisionReject,
		Reason:   SprintCompleteReason,
	}
}

// pendingStories lists story keys whose passes field is not true, in
// document order. A missing prd.json has no stories.
func (s *StopCheck) pendingStories() ([]string, error) {
	raw, err := os.ReadFile(s.prdPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read prd.json")
	}
	if !gjson.ValidBytes(raw) {
		return nil, errors.Errorf("invalid JSON in %s", s.prdPath)
	}

	stories := gjson.GetBytes(raw, "stories")
	if !stories.IsObject() && !stories.IsArray() {
		return nil, nil
	}

	var pending []string
	index := 0
	stories.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if stories.IsArray() {
			name = strconv.Itoa(index)
		}
		index++

		if value.Get("passes").Type != gjson.True {
			pending = append(pending, name)
		}
		return true
	})

	return pending, nil
}

// Run evaluates the check and prints the result as JSON. It always returns
// ExitAllow; failures fall back to {"ok":true}.
func (s *StopCheck) Run(ctx context.Context, stdout, stderr io.Writer) int {
	result := s.Evaluate(ctx, stderr)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(result); err != nil {
		fmt.Fprintf(stderr, "stop-auto-check error: %s\n", err)
		fmt.Fprintln(stdout, `{"ok":true}`)
		return ExitAllow
	}

	stdout.Write(buf.Bytes())
	return ExitAllow
}

func formatHours(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(d/time.Hour))
	}
	return d.String()
}
