// Package diagnostics prints the human facing startup and shutdown output of
// the server: a banner, the effective configuration and the route table.
package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/toyz/usersapi/internal/config"
	"github.com/toyz/usersapi/pkg/axon"
)

// DiagnosticLevel represents the level of diagnostic output
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
)

// DiagnosticSystem writes structured, user-friendly console output
type DiagnosticSystem struct {
	level     DiagnosticLevel
	useColors bool
	output    io.Writer
	errorOut  io.Writer
}

// NewDiagnosticSystem creates a diagnostic system writing to stdout and stderr
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:     level,
		useColors: shouldUseColors(),
		output:    os.Stdout,
		errorOut:  os.Stderr,
	}
}

// NewWriterDiagnostics writes everything to w without colors
func NewWriterDiagnostics(level DiagnosticLevel, w io.Writer) *DiagnosticSystem {
	return &DiagnosticSystem{level: level, output: w, errorOut: w}
}

// Error outputs error messages (always shown unless silent)
func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	if d.level >= DiagnosticError {
		d.writeMessage(d.errorOut, "ERROR", color.FgRed, format, args...)
	}
}

// Warn outputs warning messages
func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	if d.level >= DiagnosticWarn {
		d.writeMessage(d.output, "WARN", color.FgYellow, format, args...)
	}
}

// Success outputs success messages with emphasis
func (d *DiagnosticSystem) Success(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "OK", color.FgGreen, format, args...)
	}
}

// Banner outputs the application header
func (d *DiagnosticSystem) Banner(message string) {
	if d.level >= DiagnosticInfo {
		d.color(color.FgCyan, color.Bold).Fprintf(d.output, "Users API: %s\n", message)
	}
}

// Section outputs a section header
func (d *DiagnosticSystem) Section(title string) {
	if d.level >= DiagnosticInfo {
		d.color(color.FgBlue).Fprintf(d.output, "\n%s:\n", title)
	}
}

// Config prints the effective configuration
func (d *DiagnosticSystem) Config(cfg *config.Config) {
	if d.level < DiagnosticInfo {
		return
	}
	d.Section("Configuration")
	for _, kv := range [][2]string{
		{"adapter", cfg.Adapter},
		{"listen", cfg.Addr()},
		{"database", cfg.DatabasePath},
		{"environment", cfg.Environment},
		{"log level", cfg.LogLevel},
		{"default log limit", fmt.Sprint(cfg.DefaultLogLimit)},
	} {
		fmt.Fprintf(d.output, "  %-18s %s\n", kv[0], kv[1])
	}
}

// Routes prints one line per registered route
func (d *DiagnosticSystem) Routes(routes []axon.RouteInfo) {
	if d.level < DiagnosticInfo {
		return
	}
	d.Section(fmt.Sprintf("Routes (%d)", len(routes)))
	for _, r := range routes {
		d.color(methodColor(r.Method)).Fprintf(d.output, "  %-7s", r.Method)
		fmt.Fprintf(d.output, "%-28s %s.%s", r.Path, r.ControllerName, r.HandlerName)
		if len(r.Middlewares) > 0 {
			d.color(color.FgHiBlack).Fprintf(d.output, " [%s]", strings.Join(r.Middlewares, ", "))
		}
		fmt.Fprintln(d.output)
	}
}

func methodColor(method string) color.Attribute {
	switch method {
	case "GET":
		return color.FgGreen
	case "POST":
		return color.FgYellow
	case "PUT":
		return color.FgBlue
	case "DELETE":
		return color.FgRed
	default:
		return color.FgWhite
	}
}

func (d *DiagnosticSystem) color(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if d.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (d *DiagnosticSystem) writeMessage(w io.Writer, level string, attr color.Attribute, format string, args ...interface{}) {
	d.color(attr).Fprintf(w, "[%s] ", level)
	fmt.Fprintf(w, format+"\n", args...)
}

// shouldUseColors determines if colors should be used
func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}
