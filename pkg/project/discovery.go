package project

import (
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/djnsty23/claude-auto-dev/pkg/frontmatter"
)

// SkillDocPath returns the project-relative path of a skill's document
func (p *Project) SkillDocPath(name string) string {
	return path.Join(clean(p.layout.SkillsDir), name, p.layout.SkillFile)
}

// ReadSkillDoc parses the frontmatter of a skill document. Absent or empty
// documents report false.
func (p *Project) ReadSkillDoc(name string) (frontmatter.Fields, bool) {
	content, ok := p.ReadText(p.SkillDocPath(name))
	if !ok {
		return nil, false
	}
	return frontmatter.Parse(content), true
}

// SkillDocuments returns, sorted, the names of the directories under the
// skills directory that contain a skill document
func (p *Project) SkillDocuments() []string {
	pattern := path.Join(escapeMeta(clean(p.layout.SkillsDir)), "*", escapeMeta(p.layout.SkillFile))
	matches, err := doublestar.Glob(p.fsys, pattern)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, path.Base(path.Dir(m)))
	}
	sort.Strings(names)
	return names
}

// AgentsDirExists reports whether the agents directory is present
func (p *Project) AgentsDirExists() bool {
	return p.IsDir(p.layout.AgentsDir)
}

// AgentDocuments returns, sorted, the file names of the *.md entries in the
// agents directory
func (p *Project) AgentDocuments() []string {
	pattern := path.Join(escapeMeta(clean(p.layout.AgentsDir)), "*.md")
	matches, err := doublestar.Glob(p.fsys, pattern)
	if err != nil {
		return nil
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, path.Base(m))
	}
	sort.Strings(files)
	return files
}

// ReadAgentDoc parses the frontmatter of an agent document given its file name
func (p *Project) ReadAgentDoc(file string) (frontmatter.Fields, bool) {
	content, ok := p.ReadText(path.Join(clean(p.layout.AgentsDir), file))
	if !ok {
		return nil, false
	}
	return frontmatter.Parse(content), true
}

var globMeta = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`, "{", `\{`, "}", `\}`)

// escapeMeta quotes glob metacharacters in a configured path
func escapeMeta(s string) string {
	return globMeta.Replace(s)
}
