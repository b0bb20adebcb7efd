// Package project provides read-only access to the files of a skills
// repository: the version token, skill manifest, skill and agent documents,
// and the platform settings files. Every accessor tolerates missing or
// malformed input and reports it as absent instead of returning an error.
package project

// Layout holds the project-relative paths of every artifact the validator reads
type Layout struct {
	VersionFile  string `mapstructure:"version_file" yaml:"version_file"`
	PackageFile  string `mapstructure:"package_file" yaml:"package_file"`
	Manifest     string `mapstructure:"manifest" yaml:"manifest"`
	Readme       string `mapstructure:"readme" yaml:"readme"`
	Changelog    string `mapstructure:"changelog" yaml:"changelog"`
	InstallSh    string `mapstructure:"install_sh" yaml:"install_sh"`
	InstallPs1   string `mapstructure:"install_ps1" yaml:"install_ps1"`
	SessionHook  string `mapstructure:"session_hook" yaml:"session_hook"`
	SkillsDir    string `mapstructure:"skills_dir" yaml:"skills_dir"`
	SkillFile    string `mapstructure:"skill_file" yaml:"skill_file"`
	CommandsDoc  string `mapstructure:"commands_doc" yaml:"commands_doc"`
	Settings     string `mapstructure:"settings" yaml:"settings"`
	SettingsUnix string `mapstructure:"settings_unix" yaml:"settings_unix"`
	AgentsDir    string `mapstructure:"agents_dir" yaml:"agents_dir"`
}

// DefaultLayout returns the layout of a claude-auto-dev checkout
func DefaultLayout() Layout {
	return Layout{
		VersionFile:  "VERSION",
		PackageFile:  "package.json",
		Manifest:     "skills/manifest.json",
		Readme:       "README.md",
		Changelog:    "CHANGELOG.md",
		InstallSh:    "install.sh",
		InstallPs1:   "install.ps1",
		SessionHook:  "hooks/session-start.js",
		SkillsDir:    "skills",
		SkillFile:    "SKILL.md",
		CommandsDoc:  "skills/commands.md",
		Settings:     "config/settings.json",
		SettingsUnix: "config/settings-unix.json",
		AgentsDir:    "agents",
	}
}

// Paths returns every configured path keyed by its config name
func (l Layout) Paths() map[string]string {
	return map[string]string{
		"version_file":  l.VersionFile,
		"package_file":  l.PackageFile,
		"manifest":      l.Manifest,
		"readme":        l.Readme,
		"changelog":     l.Changelog,
		"install_sh":    l.InstallSh,
		"install_ps1":   l.InstallPs1,
		"session_hook":  l.SessionHook,
		"skills_dir":    l.SkillsDir,
		"skill_file":    l.SkillFile,
		"commands_doc":  l.CommandsDoc,
		"settings":      l.Settings,
		"settings_unix": l.SettingsUnix,
		"agents_dir":    l.AgentsDir,
	}
}
