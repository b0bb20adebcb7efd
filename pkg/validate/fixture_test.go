package validate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/djnsty23/claude-auto-dev/pkg/project"
)

const autoSkill = `---
name: auto
description: Autonomous task execution
user-invocable: true
model: sonnet
allowed-tools: Read, Write, Bash
triggers:
  - auto
  - go
---

# Auto

Work through the sprint.
`

const qualitySkill = `---
name: quality
description: "Internal quality gate"
user-invocable: false
model: haiku
allowed-tools:
  - Read
  - Grep
triggers:
  - quality-gate
---

# Quality
`

// validProject maps project-relative paths to the content of a repository
// that passes every check
func validProject() map[string]string {
	return map[string]string{
		"VERSION":      "5.3\n",
		"package.json": `{"name": "claude-auto-dev", "version": "5.3.0"}`,
		"skills/manifest.json": `{
  "version": "5.3",
  "skills": {
    "auto": {
      "description": "Autonomous task execution",
      "triggers": ["auto", "go"],
      "requires": ["quality"],
      "user-invocable": true
    },
    "quality": {
      "description": "Internal quality gate",
      "triggers": ["quality-gate"],
      "user-invocable": false
    }
  }
}`,
		"skills/auto/SKILL.md":    autoSkill,
		"skills/quality/SKILL.md": qualitySkill,
		"skills/commands.md":      "# Commands v5.3\n\n| Command | Description |\n|---|---|\n| `auto` | Run the sprint autonomously |\n",
		"README.md":               "# claude-auto-dev v5.3\n",
		"CHANGELOG.md":            "# Changelog\n\n## [5.3] - 2026-01-10\n- Skills\n",
		"install.sh":              "#!/bin/sh\nVERSION=\"5.3\"\n",
		"install.ps1":             "$Version = \"5.3\"\n",
		"hooks/session-start.js":  "let version = '5.3';\n",
		"hooks/pre-tool-filter.ps1": "# filter\n",
		"hooks/pre-tool-filter.sh":  "#!/bin/sh\n",
		"hooks/stop-auto-check.js":  "// stop\n",
		"config/settings.json": `{
  "permissions": {"deny": ["Bash(rm -rf /)", "Write(/etc/**)"]},
  "hooks": {
    "PreToolUse": [{"matcher": "Bash", "hooks": [{"type": "command", "command": "powershell -File %USERPROFILE%\\.claude\\hooks\\pre-tool-filter.ps1"}]}],
    "Stop": [{"hooks": [{"type": "command", "command": "node ~/.claude/hooks/stop-auto-check.js"}]}]
  }
}`,
		"config/settings-unix.json": `{
  "permissions": {"deny": ["Write(/etc/**)", "Bash(rm -rf /)"]},
  "hooks": {
    "Stop": [{"hooks": [{"type": "command", "command": "node ~/.claude/hooks/stop-auto-check.js"}]}],
    "PreToolUse": [{"matcher": "Bash", "hooks": [{"type": "command", "command": "bash ~/.claude/hooks/pre-tool-filter.sh"}]}]
  }
}`,
		"agents/reviewer.md": "---\nname: reviewer\ndescription: Reviews pull requests\n---\n\nReview carefully.\n",
	}
}

// writeProject materializes files under a fresh temporary root. A value of ""
// skips the file, which lets tests delete entries from validProject.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		if content == "" {
			continue
		}
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func openProject(t *testing.T, root string) *project.Project {
	t.Helper()
	p, err := project.New(project.WithRoot(root))
	require.NoError(t, err)
	return p
}

// runCheck builds a project from files and runs a single check against it
func runCheck(t *testing.T, files map[string]string, check CheckFunc) []Record {
	t.Helper()
	return check(context.Background(), openProject(t, writeProject(t, files)))
}

func levels(records []Record) []Level {
	out := make([]Level, 0, len(records))
	for _, r := range records {
		out = append(out, r.Level)
	}
	return out
}
