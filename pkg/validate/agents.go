package validate

import (
	"context"
	"strings"

	"github.com/djnsty23/claude-auto-dev/pkg/project"
)

var requiredAgentFields = []string{"name", "description"}

// CheckAgentFiles validates agent frontmatter and that each agent's name
// matches its filename. Agents are optional, so a missing or empty agents
// directory only warns.
func CheckAgentFiles(_ context.Context, p *project.Project) []Record {
	dir := strings.TrimSuffix(p.Layout().AgentsDir, "/") + "/"
	if !p.AgentsDirExists() {
		return []Record{warn("%s directory not found", dir)}
	}

	files := p.AgentDocuments()
	if len(files) == 0 {
		return []Record{warn("No agent files found in %s", dir)}
	}

	var records []Record
	for _, file := range files {
		fm, ok := p.ReadAgentDoc(file)
		if !ok {
			continue
		}

		var missing []string
		for _, field := range requiredAgentFields {
			if !fm.NonEmptyString(field) {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			records = append(records, fail("Agent %s: missing required fields: %s", file, strings.Join(missing, ", ")))
		}

		expected := strings.TrimSuffix(file, ".md")
		if name, ok := fm.String("name"); ok && name != "" && name != expected {
			records = append(records, fail("Agent %s: name %q doesn't match filename %q", file, name, expected))
		}
	}

	if len(records) == 0 {
		records = append(records, pass("Agent files: %d agents validated", len(files)))
	}
	return records
}
