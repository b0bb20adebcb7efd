package validate

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djnsty23/claude-auto-dev/pkg/logger"
)

func TestCheckManifestIntegrity(t *testing.T) {
	t.Run("all matched", func(t *testing.T) {
		records := runCheck(t, validProject(), CheckManifestIntegrity)
		assert.Equal(t, []Record{pass("Manifest integrity: 2 skills, all matched")}, records)
	})

	t.Run("missing and extra reported independently", func(t *testing.T) {
		files := validProject()
		files["skills/quality/SKILL.md"] = ""
		files["skills/zz-extra/SKILL.md"] = "---\nname: zz-extra\n---\n"
		files["skills/aa-extra/SKILL.md"] = "---\nname: aa-extra\n---\n"

		records := runCheck(t, files, CheckManifestIntegrity)

		assert.Equal(t, []Record{
			fail("Manifest integrity: missing SKILL.md files: quality"),
			fail("Manifest integrity: SKILL.md without manifest entry: aa-extra, zz-extra"),
		}, records)
	})

	t.Run("directories without SKILL.md are ignored", func(t *testing.T) {
		files := validProject()
		files["skills/shared/README.md"] = "helpers"
		records := runCheck(t, files, CheckManifestIntegrity)
		assert.Equal(t, []Level{LevelPass}, levels(records))
	})

	t.Run("skills is not an object", func(t *testing.T) {
		files := validProject()
		files["skills/manifest.json"] = `{"version": "5.3", "skills": ["auto"]}`
		records := runCheck(t, files, CheckManifestIntegrity)
		assert.Equal(t, []Record{fail("manifest.json not found or invalid")}, records)
	})

	t.Run("malformed fields are logged", func(t *testing.T) {
		files := validProject()
		files["skills/manifest.json"] = mistypedManifest
		p := openProject(t, writeProject(t, files))

		var buf bytes.Buffer
		l := logrus.New()
		l.SetOutput(&buf)
		ctx := logger.WithLogger(context.Background(), logrus.NewEntry(l))

		records := CheckManifestIntegrity(ctx, p)

		assert.Equal(t, []Level{LevelPass}, levels(records))
		assert.Contains(t, buf.String(), "ignoring malformed manifest fields")
		assert.Contains(t, buf.String(), "skill=auto")
		assert.Contains(t, buf.String(), "user-invocable")
	})
}

// mistypedManifest carries one wrong-typed field on an otherwise valid entry
const mistypedManifest = `{"version": "5.3", "skills": {
  "auto": {"description": "Autonomous task execution", "triggers": ["auto", "go"], "requires": ["nope"], "user-invocable": "yes"},
  "quality": {"description": "Internal quality gate", "triggers": ["quality-gate"], "user-invocable": false}
}}`

func TestMistypedManifestField(t *testing.T) {
	files := validProject()
	files["skills/manifest.json"] = mistypedManifest

	assert.Equal(t, []Record{pass("Trigger consistency: all skills match")}, runCheck(t, files, CheckTriggerConsistency))
	assert.Equal(t, []Record{pass("Description consistency: all skills match")}, runCheck(t, files, CheckDescriptionConsistency))
	assert.Equal(t, []Record{
		fail(`Invalid requires chain: auto requires non-existent skill "nope"`),
	}, runCheck(t, files, CheckRequiresChains))
}

func TestCheckTriggerConsistency(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		records := runCheck(t, validProject(), CheckTriggerConsistency)
		assert.Equal(t, []Record{pass("Trigger consistency: all skills match")}, records)
	})

	t.Run("mismatch names skill and counts", func(t *testing.T) {
		files := validProject()
		files["skills/auto/SKILL.md"] = strings.Replace(autoSkill, "  - go\n", "  - go\n  - ship\n", 1)

		records := runCheck(t, files, CheckTriggerConsistency)

		assert.Equal(t, []Record{fail("Trigger mismatch: auto (manifest has 2, SKILL.md has 3)")}, records)
	})

	t.Run("same size different members", func(t *testing.T) {
		files := validProject()
		files["skills/auto/SKILL.md"] = strings.Replace(autoSkill, "  - go\n", "  - ship\n", 1)

		records := runCheck(t, files, CheckTriggerConsistency)

		assert.Equal(t, []Level{LevelFail}, levels(records))
	})

	t.Run("quoted list items keep their quotes", func(t *testing.T) {
		files := validProject()
		files["skills/auto/SKILL.md"] = strings.Replace(autoSkill, "  - go\n", "  - \"go\"\n", 1)

		records := runCheck(t, files, CheckTriggerConsistency)

		assert.Equal(t, []Record{fail("Trigger mismatch: auto (manifest has 2, SKILL.md has 2)")}, records)
	})

	t.Run("unreadable documents are skipped", func(t *testing.T) {
		files := validProject()
		files["skills/auto/SKILL.md"] = ""
		records := runCheck(t, files, CheckTriggerConsistency)
		assert.Equal(t, []Level{LevelPass}, levels(records))
	})

	t.Run("missing manifest emits nothing", func(t *testing.T) {
		files := validProject()
		files["skills/manifest.json"] = ""
		assert.Empty(t, runCheck(t, files, CheckTriggerConsistency))
	})
}

// Reordering triggers on either side never introduces a failure.
func TestTriggerConsistencyCommutative(t *testing.T) {
	orders := [][]string{
		{"auto", "go", "ship"},
		{"ship", "go", "auto"},
		{"go", "auto", "ship"},
	}

	for _, manifestOrder := range orders {
		for _, docOrder := range orders {
			files := validProject()
			files["skills/manifest.json"] = `{"version": "5.3", "skills": {"auto": {"description": "d", "triggers": ["` +
				strings.Join(manifestOrder, `", "`) + `"]}}}`
			files["skills/quality/SKILL.md"] = ""
			files["skills/auto/SKILL.md"] = "---\nname: auto\ndescription: d\ntriggers:\n  - " +
				strings.Join(docOrder, "\n  - ") + "\n---\n"

			records := runCheck(t, files, CheckTriggerConsistency)
			assert.Equal(t, []Level{LevelPass}, levels(records), "manifest %v doc %v", manifestOrder, docOrder)
		}
	}

	assert.True(t, sameSet([]string{"a", "a", "b"}, []string{"b", "a"}))
	assert.False(t, sameSet([]string{"a"}, nil))
	assert.True(t, sameSet(nil, []string{}))
}

func TestCheckDescriptionConsistency(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		records := runCheck(t, validProject(), CheckDescriptionConsistency)
		assert.Equal(t, []Record{pass("Description consistency: all skills match")}, records)
	})

	t.Run("mismatch logs a diff at debug level", func(t *testing.T) {
		files := validProject()
		files["skills/quality/SKILL.md"] = strings.Replace(qualitySkill, `"Internal quality gate"`, "Internal quality gates", 1)
		p := openProject(t, writeProject(t, files))

		var buf bytes.Buffer
		l := logrus.New()
		l.SetOutput(&buf)
		l.SetLevel(logrus.DebugLevel)
		ctx := logger.WithLogger(context.Background(), logrus.NewEntry(l))

		records := CheckDescriptionConsistency(ctx, p)

		assert.Equal(t, []Record{fail("Description mismatch: quality")}, records)
		assert.Contains(t, buf.String(), "description diff")
		assert.Contains(t, buf.String(), "Internal quality gates")
	})

	tests := []struct {
		name     string
		manifest string
		doc      string
		level    Level
	}{
		{"empty manifest description, none in document", `"description": ""`, "", LevelFail},
		{"no manifest description, empty in document", `"x": 1`, "description: \"\"\n", LevelFail},
		{"empty on both sides", `"description": ""`, "description: \"\"\n", LevelPass},
		{"absent on both sides", `"x": 1`, "", LevelPass},
		{"document description is a list", `"description": ""`, "description:\n", LevelFail},
		{"document description is a bool", `"description": "true"`, "description: true\n", LevelFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := validProject()
			files["skills/manifest.json"] = `{"skills": {"auto": {` + tt.manifest + `}}}`
			files["skills/auto/SKILL.md"] = "---\nname: auto\n" + tt.doc + "---\n"

			records := runCheck(t, files, CheckDescriptionConsistency)

			assert.Equal(t, []Level{tt.level}, levels(records))
		})
	}
}

func TestCheckFrontmatterCompleteness(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		records := runCheck(t, validProject(), CheckFrontmatterCompleteness)
		assert.Equal(t, []Record{pass("Frontmatter required fields: all complete")}, records)
	})

	t.Run("required and recommended fields", func(t *testing.T) {
		files := validProject()
		files["skills/auto/SKILL.md"] = "---\nname: auto\ndescription: Autonomous task execution\nuser-invocable: yes\ntriggers:\n  - auto\n  - go\n---\n"
		files["skills/quality/SKILL.md"] = "---\nname: quality\ndescription: Internal quality gate\nuser-invocable: false\nallowed-tools: Read\n---\n"

		records := runCheck(t, files, CheckFrontmatterCompleteness)

		assert.Equal(t, []Record{
			fail("Missing required frontmatter fields: auto"),
			warn("Missing allowed-tools: auto"),
			warn("Missing model: auto, quality"),
		}, records)
	})

	t.Run("warnings alone keep the pass", func(t *testing.T) {
		files := validProject()
		files["skills/quality/SKILL.md"] = "---\nname: quality\ndescription: Internal quality gate\nuser-invocable: false\n---\n"

		records := runCheck(t, files, CheckFrontmatterCompleteness)

		assert.Equal(t, []Level{LevelPass, LevelWarn, LevelWarn}, levels(records))
	})

	t.Run("no frontmatter block", func(t *testing.T) {
		files := validProject()
		files["skills/auto/SKILL.md"] = "# Auto\n"

		records := runCheck(t, files, CheckFrontmatterCompleteness)

		require.NotEmpty(t, records)
		assert.Equal(t, fail("Missing required frontmatter fields: auto"), records[0])
	})
}

func TestCheckRequiresChains(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		records := runCheck(t, validProject(), CheckRequiresChains)
		assert.Equal(t, []Record{pass("Requires chains: all valid")}, records)
	})

	t.Run("one failure per dangling dependency", func(t *testing.T) {
		files := validProject()
		files["skills/manifest.json"] = `{"skills": {
  "auto": {"requires": ["quality", "deploy", "test"]},
  "quality": {"requires": ["auto"]}
}}`

		records := runCheck(t, files, CheckRequiresChains)

		assert.Equal(t, []Record{
			fail(`Invalid requires chain: auto requires non-existent skill "deploy"`),
			fail(`Invalid requires chain: auto requires non-existent skill "test"`),
		}, records)
	})

	t.Run("cycles are allowed", func(t *testing.T) {
		files := validProject()
		files["skills/manifest.json"] = `{"skills": {"a": {"requires": ["b"]}, "b": {"requires": ["a"]}}}`
		records := runCheck(t, files, CheckRequiresChains)
		assert.Equal(t, []Level{LevelPass}, levels(records))
	})
}
