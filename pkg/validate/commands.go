package validate

import (
	"bytes"
	"context"
	"path"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/djnsty23/claude-auto-dev/pkg/logger"
	"github.com/djnsty23/claude-auto-dev/pkg/project"
)

// commandsDoc is the parsed commands reference document
type commandsDoc struct {
	raw       string
	codeSpans map[string]struct{}
}

func newCommandsDoc(raw string) *commandsDoc {
	return &commandsDoc{raw: raw, codeSpans: codeSpans([]byte(raw))}
}

// codeSpans collects the lower-cased text of every inline code span
func codeSpans(source []byte) map[string]struct{} {
	spans := map[string]struct{}{}
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		span, ok := n.(*ast.CodeSpan)
		if !ok {
			return ast.WalkContinue, nil
		}
		var buf bytes.Buffer
		for c := span.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		spans[strings.ToLower(buf.String())] = struct{}{}
		return ast.WalkSkipChildren, nil
	})

	return spans
}

// Mentions reports whether trigger appears either as a code span or as a
// case-insensitive match followed by a word boundary. Empty triggers never match.
func (c *commandsDoc) Mentions(trigger string) bool {
	if trigger == "" {
		return false
	}
	if _, ok := c.codeSpans[strings.ToLower(trigger)]; ok {
		return true
	}
	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(trigger) + `\b`)
	return pattern.MatchString(c.raw)
}

func (c *commandsDoc) mentionsAny(triggers []string) bool {
	for _, t := range triggers {
		if c.Mentions(t) {
			return true
		}
	}
	return false
}

// CheckCommandsCompleteness requires every user-invocable skill to be listed
// in the commands reference and warns about internal skills that are.
func CheckCommandsCompleteness(ctx context.Context, p *project.Project) []Record {
	docs, ok := documentedSkills(p)
	if !ok {
		return nil
	}

	rel := p.Layout().CommandsDoc
	docName := path.Base(rel)
	raw, ok := p.ReadText(rel)
	if !ok {
		return []Record{fail("%s not found", docName)}
	}
	commands := newCommandsDoc(raw)
	logger.G(ctx).WithField("code_spans", len(commands.codeSpans)).Debug("parsed commands document")

	var missing, unexpected []string
	for _, d := range docs {
		invocable, _ := d.fm.Bool("user-invocable")
		listed := commands.mentionsAny(d.fm.List("triggers"))

		switch {
		case invocable && !listed:
			missing = append(missing, d.name)
		case !invocable && listed:
			unexpected = append(unexpected, d.name)
		}
	}

	var records []Record
	if len(missing) > 0 {
		records = append(records, fail("User-invocable skills missing from %s: %s", docName, strings.Join(missing, ", ")))
	}
	if len(unexpected) > 0 {
		records = append(records, warn("Non-user-invocable skills in %s: %s", docName, strings.Join(unexpected, ", ")))
	}
	if len(records) == 0 {
		records = append(records, pass("%s completeness: all user-invocable skills present", docName))
	}
	return records
}
