// Package validate implements the consistency checks that keep a skills
// repository's manifest, skill documents, settings files, agents and version
// references in agreement. Each check returns its findings as records; the
// runner concatenates them into a Report whose exit code is the CI contract.
package validate

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Level is the outcome of a single finding
type Level string

// Finding levels. Only LevelFail affects the exit code.
const (
	LevelPass Level = "PASS"
	LevelFail Level = "FAIL"
	LevelWarn Level = "WARN"
)

// Record is one finding emitted by a check
type Record struct {
	Check   string `json:"check" yaml:"check"`
	Level   Level  `json:"level" yaml:"level"`
	Message string `json:"message" yaml:"message"`
}

// String renders the record as "[LEVEL] message"
func (r Record) String() string {
	return fmt.Sprintf("[%s] %s", r.Level, r.Message)
}

func pass(format string, args ...any) Record {
	return Record{Level: LevelPass, Message: fmt.Sprintf(format, args...)}
}

func fail(format string, args ...any) Record {
	return Record{Level: LevelFail, Message: fmt.Sprintf(format, args...)}
}

func warn(format string, args ...any) Record {
	return Record{Level: LevelWarn, Message: fmt.Sprintf(format, args...)}
}

// Report is the ordered result of a validation run
type Report struct {
	Records []Record `json:"records" yaml:"records"`
	Pass    int      `json:"pass" yaml:"pass"`
	Fail    int      `json:"fail" yaml:"fail"`
	Warn    int      `json:"warn" yaml:"warn"`
}

// NewReport reduces records into a report
func NewReport(records []Record) *Report {
	r := &Report{Records: make([]Record, 0, len(records))}
	for _, rec := range records {
		r.add(rec)
	}
	return r
}

func (r *Report) add(rec Record) {
	r.Records = append(r.Records, rec)
	switch rec.Level {
	case LevelPass:
		r.Pass++
	case LevelFail:
		r.Fail++
	case LevelWarn:
		r.Warn++
	}
}

// ExitCode returns 1 when any FAIL was recorded, otherwise 0
func (r *Report) ExitCode() int {
	if r.Fail > 0 {
		return 1
	}
	return 0
}

// Summary renders the final summary line
func (r *Report) Summary() string {
	return fmt.Sprintf("Summary: %d PASS, %d FAIL, %d WARN", r.Pass, r.Fail, r.Warn)
}

// Format selects the machine-readable encoding of a report
type Format string

// Supported report formats
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", errors.Errorf("unsupported report format %q (want text, json or yaml)", s)
	}
}

// Encode writes the report in a structured format. FormatText is rendered by
// the presenter package, not here.
func (r *Report) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(r), "failed to encode report as JSON")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return errors.Wrap(err, "failed to encode report as YAML")
		}
		return errors.Wrap(enc.Close(), "failed to flush YAML report")
	default:
		return errors.Errorf("format %q is not a structured format", format)
	}
}
