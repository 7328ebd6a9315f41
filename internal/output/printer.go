// Package output formats the one-shot CLI commands.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/pders01/srch/internal/render"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitSearch  = 2
	ExitConfig  = 3
)

// CLIError carries an exit code alongside the message shown to the user.
type CLIError struct {
	Summary  string
	Detail   string
	ExitCode int
}

func (e *CLIError) Error() string {
	return e.Summary
}

// ResolveColors reports whether colored output should be used. NO_COLOR and
// TERM=dumb win over the flag.
func ResolveColors(enabled bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return enabled
}

// Printer writes formatted output for the CLI commands.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

func NewPrinter(out, errOut io.Writer, useColors bool) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{out: out, err: errOut, useColors: useColors}
}

func (p *Printer) Out() io.Writer { return p.out }

func (p *Printer) Info(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgCyan).Fprintf(p.out, format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, format+"\n", args...)
	}
}

func (p *Printer) Success(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
	}
}

func (p *Printer) Warning(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
	}
}

func (p *Printer) Error(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
	}
}

// FormatError prints e and its cause to stderr.
func (p *Printer) FormatError(e *CLIError) {
	p.Error("%s", e.Summary)
	if e.Detail != "" {
		fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
	}
}

func (p *Printer) Print(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Header(title string) {
	if p.useColors {
		color.New(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", title)
		color.New(color.FgWhite).Fprintf(p.out, "%s\n", strings.Repeat("─", len([]rune(title))))
	} else {
		fmt.Fprintf(p.out, "\n%s\n%s\n", title, strings.Repeat("-", len([]rune(title))))
	}
}

// StatusBadge renders a service health status.
func (p *Printer) StatusBadge(status string) string {
	if !p.useColors {
		return fmt.Sprintf("[%s]", status)
	}

	switch strings.ToLower(status) {
	case "healthy", "ok", "up":
		return color.GreenString("● " + status)
	case "unhealthy", "down", "error":
		return color.RedString("● " + status)
	case "degraded":
		return color.YellowString("● " + status)
	default:
		return color.WhiteString("○ " + status)
	}
}

func (p *Printer) Dim(text string) string {
	if p.useColors {
		return color.New(color.Faint).Sprint(text)
	}
	return text
}

// View prints a rendered search result: header line, summary and insights.
func (p *Printer) View(v render.View) {
	if p.useColors {
		fmt.Fprintf(p.out, "%s  %s\n", color.New(color.Bold).Sprint(v.ArticlesLabel), color.CyanString(v.ConfidenceLabel))
	} else {
		fmt.Fprintf(p.out, "%s  %s\n", v.ArticlesLabel, v.ConfidenceLabel)
	}

	p.Header("Summary")
	fmt.Fprintln(p.out, v.Summary)

	if len(v.Insights) == 0 {
		return
	}
	p.Header("Key Insights")
	for _, in := range v.Insights {
		fmt.Fprintf(p.out, "• %s\n", in)
	}
}
