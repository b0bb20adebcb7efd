// Package presenter renders validation reports and other user-facing CLI
// output, with color support and a quiet mode that hides passing checks.
package presenter

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/djnsty23/claude-auto-dev/pkg/validate"
)

// Presenter defines the output surface of the CLI
type Presenter interface {
	Header(title string)
	Record(record validate.Record)
	Report(report *validate.Report)
	Error(err error, context string)
	SetQuiet(quiet bool)
}

var _ Presenter = (*TerminalPresenter)(nil)

// TerminalPresenter implements Presenter for terminal output
type TerminalPresenter struct {
	output      io.Writer
	errorOutput io.Writer
	colorMode   ColorMode
	quiet       bool
}

// ColorMode represents different color output modes
type ColorMode int

const (
	// ColorAuto detects color support from the terminal
	ColorAuto ColorMode = iota
	// ColorAlways forces colored output
	ColorAlways
	// ColorNever disables colored output
	ColorNever
)

// ParseColorMode maps a config value to a ColorMode
func ParseColorMode(s string) ColorMode {
	switch s {
	case "always", "force":
		return ColorAlways
	case "never", "off":
		return ColorNever
	default:
		return ColorAuto
	}
}

// New creates a TerminalPresenter writing to stdout and stderr
func New() *TerminalPresenter {
	return NewWithOptions(os.Stdout, os.Stderr, detectColorMode())
}

// NewWithOptions creates a TerminalPresenter with custom settings
func NewWithOptions(output, errorOutput io.Writer, colorMode ColorMode) *TerminalPresenter {
	switch colorMode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	case ColorAuto:
	}

	return &TerminalPresenter{
		output:      output,
		errorOutput: errorOutput,
		colorMode:   colorMode,
	}
}

func detectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}
	return ParseColorMode(os.Getenv("AUTODEV_COLOR"))
}

var levelColors = map[validate.Level]*color.Color{
	validate.LevelPass: color.New(color.FgGreen, color.Bold),
	validate.LevelFail: color.New(color.FgRed, color.Bold),
	validate.LevelWarn: color.New(color.FgYellow, color.Bold),
}

// Header prints the banner shown before the first record
func (p *TerminalPresenter) Header(title string) {
	fmt.Fprintf(p.output, "%s\n\n", title)
}

// Record prints one "[LEVEL] message" line. Quiet mode hides PASS lines.
func (p *TerminalPresenter) Record(record validate.Record) {
	if p.quiet && record.Level == validate.LevelPass {
		return
	}

	tag := fmt.Sprintf("[%s]", record.Level)
	if c, ok := levelColors[record.Level]; ok {
		tag = c.Sprint(tag)
	}
	fmt.Fprintf(p.output, "%s %s\n", tag, record.Message)
}

// Report prints every record followed by the summary line
func (p *TerminalPresenter) Report(report *validate.Report) {
	for _, r := range report.Records {
		p.Record(r)
	}
	fmt.Fprintf(p.output, "\n%s\n", report.Summary())
}

// Error displays an error message to stderr
func (p *TerminalPresenter) Error(err error, context string) {
	if err == nil {
		return
	}

	errorColor := color.New(color.FgRed, color.Bold)
	if context != "" {
		errorColor.Fprintf(p.errorOutput, "[ERROR] %s: %v\n", context, err)
	} else {
		errorColor.Fprintf(p.errorOutput, "[ERROR] %v\n", err)
	}
}

// SetQuiet enables or disables quiet mode
func (p *TerminalPresenter) SetQuiet(quiet bool) {
	p.quiet = quiet
}
