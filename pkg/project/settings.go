package project

import (
	"github.com/tidwall/gjson"
)

// HookCommand is one command entry inside a settings hook matcher
type HookCommand struct {
	Type    string `json:"type" jsonschema:"enum=command"`
	Command string `json:"command"`
	Timeout int    `json:"timeout,omitempty"`
}

// HookMatcher binds hook commands to the tools an event fires for
type HookMatcher struct {
	Matcher string        `json:"matcher,omitempty"`
	Hooks   []HookCommand `json:"hooks"`
}

// Permissions holds the allow and deny rules of a settings file
type Permissions struct {
	Allow []string `json:"allow,omitempty"`
	Deny  []string `json:"deny,omitempty"`
}

// SettingsDocument describes the on-disk shape of a platform settings file
type SettingsDocument struct {
	Permissions Permissions              `json:"permissions"`
	Hooks       map[string][]HookMatcher `json:"hooks"`
}

// Settings is the part of a settings file the validator compares
type Settings struct {
	// Raw is the file content as read from disk
	Raw        []byte
	Deny       []string
	HookEvents []string
	// HasHooks is false when the hooks section is missing or falsy
	HasHooks bool
}

// LoadSettings reads a settings file. The second return value is false when
// the file is missing or is not valid JSON.
func (p *Project) LoadSettings(rel string) (*Settings, bool) {
	raw, ok := p.ReadJSON(rel)
	if !ok {
		return nil, false
	}
	return parseSettings(raw), true
}

func parseSettings(raw []byte) *Settings {
	s := &Settings{Raw: raw}

	for _, rule := range gjson.GetBytes(raw, "permissions.deny").Array() {
		s.Deny = append(s.Deny, rule.String())
	}

	hooks := gjson.GetBytes(raw, "hooks")
	s.HasHooks = truthy(hooks)
	if hooks.IsObject() {
		hooks.ForEach(func(key, _ gjson.Result) bool {
			s.HookEvents = append(s.HookEvents, key.String())
			return true
		})
	}

	return s
}

// truthy reports whether v would be truthy in JavaScript
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		return v.Str != ""
	default:
		return true
	}
}
