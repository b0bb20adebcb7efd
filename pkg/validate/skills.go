package validate

import (
	"context"
	"path"
	"strings"

	udiff "github.com/aymanbagabas/go-udiff"

	"github.com/djnsty23/claude-auto-dev/pkg/frontmatter"
	"github.com/djnsty23/claude-auto-dev/pkg/logger"
	"github.com/djnsty23/claude-auto-dev/pkg/project"
)

// skillDoc pairs a manifest entry with its parsed skill document
type skillDoc struct {
	name string
	meta project.SkillMeta
	fm   frontmatter.Fields
}

// documentedSkills returns the manifest entries whose skill document could be
// read, in manifest order. ok is false when the manifest itself is unusable.
func documentedSkills(p *project.Project) ([]skillDoc, bool) {
	manifest, ok := p.LoadManifest()
	if !ok || !manifest.SkillsValid {
		return nil, false
	}

	var docs []skillDoc
	for _, s := range manifest.Skills {
		fm, ok := p.ReadSkillDoc(s.Name)
		if !ok {
			continue
		}
		docs = append(docs, skillDoc{name: s.Name, meta: s.Meta, fm: fm})
	}
	return docs, true
}

func skillFileName(p *project.Project) string {
	return p.Layout().SkillFile
}

// CheckManifestIntegrity verifies the one-to-one mapping between manifest
// entries and skill documents on disk.
func CheckManifestIntegrity(ctx context.Context, p *project.Project) []Record {
	manifestName := path.Base(p.Layout().Manifest)
	skillFile := skillFileName(p)

	manifest, ok := p.LoadManifest()
	if !ok || !manifest.SkillsValid {
		return []Record{fail("%s not found or invalid", manifestName)}
	}
	for _, s := range manifest.Skills {
		if s.Err != nil {
			logger.G(ctx).WithError(s.Err).WithField("skill", s.Name).Warn("ignoring malformed manifest fields")
		}
	}

	var missing, extra []string
	for _, name := range manifest.Names() {
		if !p.Exists(p.SkillDocPath(name)) {
			missing = append(missing, name)
		}
	}
	for _, dir := range p.SkillDocuments() {
		if !manifest.Has(dir) {
			extra = append(extra, dir)
		}
	}

	var records []Record
	if len(missing) > 0 {
		records = append(records, fail("Manifest integrity: missing %s files: %s", skillFile, strings.Join(missing, ", ")))
	}
	if len(extra) > 0 {
		records = append(records, fail("Manifest integrity: %s without manifest entry: %s", skillFile, strings.Join(extra, ", ")))
	}
	if len(records) == 0 {
		records = append(records, pass("Manifest integrity: %d skills, all matched", len(manifest.Skills)))
	}
	return records
}

// sameSet reports whether a and b hold the same distinct strings
func sameSet(a, b []string) bool {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) != len(setB) {
		return false
	}
	for s := range setA {
		if _, ok := setB[s]; !ok {
			return false
		}
	}
	return true
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}

// CheckTriggerConsistency compares manifest triggers with the document's
// frontmatter triggers, ignoring order.
func CheckTriggerConsistency(_ context.Context, p *project.Project) []Record {
	docs, ok := documentedSkills(p)
	if !ok {
		return nil
	}

	var records []Record
	for _, d := range docs {
		fmTriggers := d.fm.List("triggers")
		if !sameSet(d.meta.Triggers, fmTriggers) {
			records = append(records, fail("Trigger mismatch: %s (manifest has %d, %s has %d)",
				d.name, len(d.meta.Triggers), skillFileName(p), len(fmTriggers)))
		}
	}

	if len(records) == 0 {
		records = append(records, pass("Trigger consistency: all skills match"))
	}
	return records
}

// CheckDescriptionConsistency requires the manifest description to equal the
// frontmatter description verbatim. A description declared on one side only
// is a mismatch, even when it is empty.
func CheckDescriptionConsistency(ctx context.Context, p *project.Project) []Record {
	docs, ok := documentedSkills(p)
	if !ok {
		return nil
	}

	var records []Record
	for _, d := range docs {
		fmDesc, isString := d.fm.String("description")
		if sameDescription(d.meta, d.fm.Has("description"), isString, fmDesc) {
			continue
		}
		records = append(records, fail("Description mismatch: %s", d.name))
		logger.G(ctx).WithField("skill", d.name).Debugf("description diff:\n%s",
			udiff.Unified("manifest", p.SkillDocPath(d.name), d.meta.Description+"\n", fmDesc+"\n"))
	}

	if len(records) == 0 {
		records = append(records, pass("Description consistency: all skills match"))
	}
	return records
}

func sameDescription(meta project.SkillMeta, declared, isString bool, fmDesc string) bool {
	if !meta.HasDescription || !declared {
		return !meta.HasDescription && !declared
	}
	return isString && meta.Description == fmDesc
}

// CheckFrontmatterCompleteness requires name, description and an explicit
// user-invocable boolean; allowed-tools and model are recommended only.
func CheckFrontmatterCompleteness(_ context.Context, p *project.Project) []Record {
	docs, ok := documentedSkills(p)
	if !ok {
		return nil
	}

	var missingRequired, missingTools, missingModel []string
	for _, d := range docs {
		_, hasInvocable := d.fm.Bool("user-invocable")
		if !d.fm.NonEmptyString("name") || !d.fm.NonEmptyString("description") || !hasInvocable {
			missingRequired = append(missingRequired, d.name)
		}
		if !d.fm.Present("allowed-tools") {
			missingTools = append(missingTools, d.name)
		}
		if !d.fm.Present("model") {
			missingModel = append(missingModel, d.name)
		}
	}

	var records []Record
	if len(missingRequired) > 0 {
		records = append(records, fail("Missing required frontmatter fields: %s", strings.Join(missingRequired, ", ")))
	} else {
		records = append(records, pass("Frontmatter required fields: all complete"))
	}
	if len(missingTools) > 0 {
		records = append(records, warn("Missing allowed-tools: %s", strings.Join(missingTools, ", ")))
	}
	if len(missingModel) > 0 {
		records = append(records, warn("Missing model: %s", strings.Join(missingModel, ", ")))
	}
	return records
}

// CheckRequiresChains verifies that every required skill exists in the
// manifest. Cycles are not detected.
func CheckRequiresChains(_ context.Context, p *project.Project) []Record {
	manifest, ok := p.LoadManifest()
	if !ok || !manifest.SkillsValid {
		return nil
	}

	var records []Record
	for _, s := range manifest.Skills {
		for _, req := range s.Meta.Requires {
			if !manifest.Has(req) {
				records = append(records, fail("Invalid requires chain: %s requires non-existent skill %q", s.Name, req))
			}
		}
	}

	if len(records) == 0 {
		records = append(records, pass("Requires chains: all valid"))
	}
	return records
}
