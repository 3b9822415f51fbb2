// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output prints per-item status lines and summaries for the CLIs.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// ColorMode selects when status lines are colored.
type ColorMode int

const (
	// ColorAuto colors output unless NO_COLOR is set or TERM is dumb.
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode parses "auto", "always", or "never".
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always, or never", s)
	}
}

// ResolveColors decides whether to color output for mode in the current environment.
func ResolveColors(mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		return !color.NoColor
	}
}

// Printer writes status lines. Status goes to out, failures to err.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
	quiet     bool
}

// NewPrinter returns a printer writing to out and errOut.
func NewPrinter(out, errOut io.Writer, useColors, quiet bool) *Printer {
	return &Printer{out: out, err: errOut, useColors: useColors, quiet: quiet}
}

// Plain returns an uncolored printer writing everything to w. Tests and
// library callers use it.
func Plain(w io.Writer) *Printer {
	return &Printer{out: w, err: w}
}

// Out returns the status writer, for progress output.
func (p *Printer) Out() io.Writer {
	if p.quiet {
		return io.Discard
	}
	return p.out
}

// Status prints "label: message". The label is colored by kind.
func (p *Printer) Status(label, format string, args ...any) {
	if p.quiet {
		return
	}
	p.line(p.out, labelColor(label), label, format, args...)
}

// Warning prints a warning to the status writer.
func (p *Printer) Warning(format string, args ...any) {
	if p.quiet {
		return
	}
	p.line(p.out, color.FgYellow, "warning", format, args...)
}

// Failure prints a "failed:" line to the error writer. Quiet mode does not
// suppress failures.
func (p *Printer) Failure(format string, args ...any) {
	p.line(p.err, color.FgRed, "failed", format, args...)
}

// Summary prints a blank line followed by an uncolored summary line.
func (p *Printer) Summary(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "\n"+format+"\n", args...)
}

func (p *Printer) line(w io.Writer, attr color.Attribute, label, format string, args ...any) {
	prefix := label + ":"
	if p.useColors {
		prefix = color.New(attr).Sprint(prefix)
	}
	fmt.Fprintf(w, prefix+" "+format+"\n", args...)
}

func labelColor(label string) color.Attribute {
	switch label {
	case "downloaded", "converted", "recorded":
		return color.FgGreen
	case "skipped":
		return color.FgHiBlack
	case "would download":
		return color.FgMagenta
	default:
		return color.FgCyan
	}
}
