package validate

import (
	"context"
	"path"
	"regexp"
	"slices"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/djnsty23/claude-auto-dev/pkg/logger"
	"github.com/djnsty23/claude-auto-dev/pkg/project"
)

// hookFileRef matches hook script references in settings text. Backslashes
// appear doubled inside JSON strings, hence the repeated separator class.
var hookFileRef = regexp.MustCompile(`hooks[\\/]+([\w-]+\.(?:sh|ps1|js))`)

func sorted(items []string) []string {
	out := slices.Clone(items)
	sort.Strings(out)
	return out
}

// difference returns the items of a that are not in b
func difference(a, b []string) []string {
	inB := toSet(b)
	var out []string
	for _, s := range a {
		if _, ok := inB[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// CheckSettingsSync requires both platform settings files to carry the same
// deny rules and the same hook events. Hook commands may differ.
func CheckSettingsSync(ctx context.Context, p *project.Project) []Record {
	layout := p.Layout()
	primaryName, unixName := path.Base(layout.Settings), path.Base(layout.SettingsUnix)

	primary, ok1 := p.LoadSettings(layout.Settings)
	unix, ok2 := p.LoadSettings(layout.SettingsUnix)
	if !ok1 || !ok2 {
		return []Record{fail("Settings files not found")}
	}

	var records []Record
	if !slices.Equal(sorted(primary.Deny), sorted(unix.Deny)) {
		records = append(records, fail("Settings sync: deny rules differ between %s and %s", primaryName, unixName))
		logger.G(ctx).WithFields(logrus.Fields{
			"only_" + primaryName: difference(primary.Deny, unix.Deny),
			"only_" + unixName:    difference(unix.Deny, primary.Deny),
		}).Debug("deny rule difference")
	}
	if !slices.Equal(sorted(primary.HookEvents), sorted(unix.HookEvents)) {
		records = append(records, fail("Settings sync: hook events differ between settings files"))
		logger.G(ctx).WithFields(logrus.Fields{
			"only_" + primaryName: difference(primary.HookEvents, unix.HookEvents),
			"only_" + unixName:    difference(unix.HookEvents, primary.HookEvents),
		}).Debug("hook event difference")
	}

	if len(records) == 0 {
		records = append(records, pass("Settings sync: deny rules and hooks match"))
	}
	return records
}

// hookFileRefs returns the hook scripts referenced by settings text as
// "hooks/<file>" paths, de-duplicated in first-seen order
func hookFileRefs(raw []byte) []string {
	var refs []string
	seen := map[string]struct{}{}
	for _, m := range hookFileRef.FindAllSubmatch(raw, -1) {
		ref := "hooks/" + string(m[1])
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	return refs
}

// CheckHookFilesExist verifies that every hook script the primary settings
// file references exists in the project.
func CheckHookFilesExist(_ context.Context, p *project.Project) []Record {
	rel := p.Layout().Settings
	settings, ok := p.LoadSettings(rel)
	if !ok || !settings.HasHooks {
		return []Record{fail("%s hooks section not found", path.Base(rel))}
	}

	refs := hookFileRefs(settings.Raw)
	var records []Record
	for _, ref := range refs {
		if !p.Exists(ref) {
			records = append(records, fail("Hook file missing: %s", ref))
		}
	}

	if len(records) == 0 {
		records = append(records, pass("Hook files exist: %d files verified", len(refs)))
	}
	return records
}
