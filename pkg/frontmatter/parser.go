package frontmatter

import (
	"regexp"
	"strings"
)

const delimiter = "---"

var (
	keyLine  = regexp.MustCompile(`^(\w[\w-]*):\s*(.*)$`)
	listItem = regexp.MustCompile(`^\s+-\s+(.*)$`)
)

type state int

const (
	seekingStart state = iota
	keyScan
	listAccumulation
	done
)

// Parse extracts the frontmatter block from content. Content without a complete
// block (opening and closing delimiter lines) yields an empty, non-nil Fields.
// Parse never fails: lines it does not understand are skipped.
func Parse(content string) Fields {
	fields := Fields{}
	st := seekingStart
	var listKey string

	for _, line := range splitLines(content) {
		isDelim := strings.TrimRight(line, " \t") == delimiter

		switch st {
		case seekingStart:
			if !isDelim {
				return Fields{}
			}
			st = keyScan
			continue
		case keyScan, listAccumulation:
			if isDelim {
				st = done
			}
		}
		if st == done {
			break
		}

		if m := keyLine.FindStringSubmatch(line); m != nil {
			key, raw := m[1], strings.TrimSpace(m[2])
			if raw == "" {
				fields[key] = Value{Kind: KindList, List: []string{}}
				listKey = key
				st = listAccumulation
			} else {
				fields[key] = coerce(raw)
				st = keyScan
			}
			continue
		}

		if st == listAccumulation {
			appendItem(fields, listKey, line)
		}
	}

	if st != done {
		return Fields{}
	}
	return fields
}

// appendItem adds a list item verbatim after trimming. Quotes are kept and
// empty items count.
func appendItem(fields Fields, key, line string) {
	m := listItem.FindStringSubmatch(line)
	if m == nil {
		return
	}
	v := fields[key]
	v.List = append(v.List, strings.TrimSpace(m[1]))
	fields[key] = v
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}

func coerce(raw string) Value {
	if isQuoted(raw) {
		return Value{Kind: KindString, Str: unquote(raw)}
	}
	switch raw {
	case "true":
		return Value{Kind: KindBool, Bool: true}
	case "false":
		return Value{Kind: KindBool, Bool: false}
	}
	return Value{Kind: KindString, Str: raw}
}

func isQuoted(s string) bool {
	return strings.HasPrefix(s, `"`) || strings.HasPrefix(s, `'`)
}

// unquote strips a leading quote and, when present, the matching trailing one
func unquote(s string) string {
	if !isQuoted(s) {
		return s
	}
	q := s[:1]
	return strings.TrimSuffix(s[1:], q)
}
