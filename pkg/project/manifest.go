package project

import (
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// SkillMeta is the metadata the manifest declares for one skill
type SkillMeta struct {
	Description    string   `mapstructure:"description" json:"description"`
	Triggers       []string `mapstructure:"triggers" json:"triggers,omitempty"`
	Requires       []string `mapstructure:"requires" json:"requires,omitempty"`
	UserInvocable  bool     `mapstructure:"user-invocable" json:"user-invocable,omitempty"`
	HasDescription bool     `mapstructure:"-" json:"-"`
}

// ManifestDocument describes the on-disk shape of skills/manifest.json
type ManifestDocument struct {
	Version string               `json:"version" jsonschema:"description=Version token; must equal the VERSION file"`
	Skills  map[string]SkillMeta `json:"skills" jsonschema:"description=Skill name to metadata"`
}

// ManifestSkill is a manifest entry in document order
type ManifestSkill struct {
	Name string
	Meta SkillMeta
	// Err holds the decode errors of fields that were dropped
	Err  error
}

// Manifest is the decoded skill manifest
type Manifest struct {
	// Version is set only when the manifest carries a string version
	Version    string
	HasVersion bool
	// SkillsValid is false when "skills" is missing or not an object
	SkillsValid bool
	Skills      []ManifestSkill

	index map[string]int
}

// Has reports whether the manifest declares a skill called name
func (m *Manifest) Has(name string) bool {
	_, ok := m.index[name]
	return ok
}

// Names returns the skill names in document order
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Skills))
	for _, s := range m.Skills {
		names = append(names, s.Name)
	}
	return names
}

// LoadManifest reads and decodes the skill manifest. The second return value is
// false when the file is missing or is not valid JSON.
func (p *Project) LoadManifest() (*Manifest, bool) {
	raw, ok := p.ReadJSON(p.layout.Manifest)
	if !ok {
		return nil, false
	}
	return parseManifest(raw), true
}

func parseManifest(raw []byte) *Manifest {
	m := &Manifest{index: map[string]int{}}

	if v := gjson.GetBytes(raw, "version"); v.Type == gjson.String {
		m.Version = v.Str
		m.HasVersion = true
	}

	skills := gjson.GetBytes(raw, "skills")
	if !skills.IsObject() {
		return m
	}
	m.SkillsValid = true

	skills.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		meta, err := decodeSkillMeta(value)
		if i, dup := m.index[name]; dup {
			m.Skills[i].Meta = meta
			m.Skills[i].Err = err
			return true
		}
		m.index[name] = len(m.Skills)
		m.Skills = append(m.Skills, ManifestSkill{Name: name, Meta: meta, Err: err})
		return true
	})

	return m
}

// decodeSkillMeta decodes one manifest entry field by field, so a field of
// the wrong type leaves the others intact. Entries that are not objects decode
// to the zero SkillMeta.
func decodeSkillMeta(value gjson.Result) (SkillMeta, error) {
	var meta SkillMeta
	if !value.IsObject() {
		return meta, errors.New("skill entry is not an object")
	}

	var result *multierror.Error
	decodeField := func(key string, weak bool, target any) {
		field := value.Get(key)
		if !field.Exists() {
			return
		}
		if err := decodeValue(field.Value(), weak, target); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "field %q", key))
		}
	}

	// description is compared verbatim, so it is not coerced from other types
	meta.HasDescription = value.Get("description").Exists()
	decodeField("description", false, &meta.Description)
	decodeField("triggers", true, &meta.Triggers)
	decodeField("requires", true, &meta.Requires)
	decodeField("user-invocable", true, &meta.UserInvocable)

	return meta, result.ErrorOrNil()
}

func decodeValue(input any, weak bool, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: weak,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}
	return decoder.Decode(input)
}
