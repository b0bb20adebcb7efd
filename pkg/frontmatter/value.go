// Package frontmatter parses the restricted key/value preamble at the top of
// SKILL.md and agent documents. The grammar is deliberately smaller than YAML:
// scalar strings, booleans, quoted strings and flat string lists.
package frontmatter

// Kind identifies the shape of a parsed value
type Kind int

// Value kinds produced by the parser
const (
	KindString Kind = iota
	KindBool
	KindList
)

// Value is a single frontmatter field value
type Value struct {
	Kind Kind
	Str  string
	Bool bool
	List []string
}

// Fields maps a declared key to its value
type Fields map[string]Value

// Has reports whether key was declared at all
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// String returns the scalar string value of key. Booleans and lists yield ("", false).
func (f Fields) String(key string) (string, bool) {
	v, ok := f[key]
	if !ok || v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

// NonEmptyString returns true when key holds a string with at least one character
func (f Fields) NonEmptyString(key string) bool {
	s, ok := f.String(key)
	return ok && s != ""
}

// Bool returns the boolean value of key and whether key holds an explicit boolean
func (f Fields) Bool(key string) (bool, bool) {
	v, ok := f[key]
	if !ok || v.Kind != KindBool {
		return false, false
	}
	return v.Bool, true
}

// List returns the list value of key. A non-empty scalar string is treated as a
// single-element list; anything else yields nil.
func (f Fields) List(key string) []string {
	v, ok := f[key]
	if !ok {
		return nil
	}
	switch v.Kind {
	case KindList:
		return v.List
	case KindString:
		if v.Str != "" {
			return []string{v.Str}
		}
	}
	return nil
}

// Present reports whether key carries a usable value: a non-empty string,
// a boolean, or a list with at least one item.
func (f Fields) Present(key string) bool {
	v, ok := f[key]
	if !ok {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str != ""
	case KindList:
		return len(v.List) > 0
	default:
		return true
	}
}
