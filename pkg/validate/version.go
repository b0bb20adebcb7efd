package validate

import (
	"context"
	"path"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/djnsty23/claude-auto-dev/pkg/logger"
	"github.com/djnsty23/claude-auto-dev/pkg/project"
)

// PackageVersionMatches reports whether a package.json version such as
// "5.3.0" agrees with the token "5.3": its first two dot components must equal it
func PackageVersionMatches(pkgVersion, version string) bool {
	parts := strings.Split(pkgVersion, ".")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, ".") == version
}

// ManifestVersionMatches reports whether the manifest version equals the token
func ManifestVersionMatches(manifestVersion, version string) bool {
	return manifestVersion == version
}

// ReadmeHasVersion reports whether the README mentions "v<version>"
func ReadmeHasVersion(text, version string) bool {
	return strings.Contains(text, "v"+version)
}

// ChangelogHasVersion reports whether the changelog has a "[<version>]" entry
func ChangelogHasVersion(text, version string) bool {
	return strings.Contains(text, "["+version+"]")
}

// ContainsVersion reports whether a script carries the raw version token
func ContainsVersion(text, version string) bool {
	return strings.Contains(text, version)
}

// CheckVersionSync verifies that the VERSION token appears in the package
// descriptor, manifest, README, changelog, both install scripts and the
// session-start hook.
func CheckVersionSync(ctx context.Context, p *project.Project) []Record {
	layout := p.Layout()

	content, ok := p.ReadText(layout.VersionFile)
	if !ok {
		return []Record{fail("%s file not found", path.Base(layout.VersionFile))}
	}
	version := strings.TrimSpace(content)
	if version == "" {
		return []Record{fail("%s file is empty", path.Base(layout.VersionFile))}
	}
	logger.G(ctx).WithField("version", version).Debug("read version token")

	var records []Record
	matched := 0

	check := func(ok bool, failure Record) {
		if ok {
			matched++
			return
		}
		records = append(records, failure)
	}

	pkgName := path.Base(layout.PackageFile)
	if raw, ok := p.ReadJSON(layout.PackageFile); !ok {
		check(false, fail("%s not found or invalid", pkgName))
	} else if v := gjson.GetBytes(raw, "version"); v.Type != gjson.String || v.Str == "" {
		check(false, fail("Version missing in %s: expected %s.x", pkgName, version))
	} else {
		check(PackageVersionMatches(v.Str, version),
			fail("Version mismatch in %s: expected %s.x, got %s", pkgName, version, v.Str))
	}

	manifestName := path.Base(layout.Manifest)
	manifest, ok := p.LoadManifest()
	switch {
	case !ok:
		check(false, fail("%s not found or invalid", manifestName))
	case !manifest.HasVersion:
		check(false, fail("Version missing in %s: expected %s", manifestName, version))
	default:
		check(ManifestVersionMatches(manifest.Version, version),
			fail("Version mismatch in %s: expected %s, got %s", manifestName, version, manifest.Version))
	}

	textRules := []struct {
		rel      string
		token    string
		contains func(text, version string) bool
	}{
		{layout.Readme, "v" + version, ReadmeHasVersion},
		{layout.Changelog, "[" + version + "]", ChangelogHasVersion},
		{layout.InstallSh, version, ContainsVersion},
		{layout.InstallPs1, version, ContainsVersion},
		{layout.SessionHook, version, ContainsVersion},
	}
	for _, rule := range textRules {
		name := path.Base(rule.rel)
		text, ok := p.ReadText(rule.rel)
		if !ok {
			check(false, fail("%s not found", name))
			continue
		}
		check(rule.contains(text, version), fail("Version %s not found in %s", rule.token, name))
	}

	if len(records) == 0 {
		records = append(records, pass("Version sync: %s across %d files", version, matched))
	}
	return records
}
