// Package ui formats command-line output.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

var (
	isTerminal   = isatty.IsTerminal(os.Stdout.Fd())
	colorEnabled = true
)

// DisableColors disables all color output
func DisableColors() {
	colorEnabled = false
	isTerminal = false
	initStyles()
}

// EnableColors enables color output when stdout is a terminal
func EnableColors() {
	colorEnabled = true
	isTerminal = isatty.IsTerminal(os.Stdout.Fd())
	initStyles()
}

// IsTerminal checks if stdout is a terminal
func IsTerminal() bool {
	return isTerminal && colorEnabled
}

// Section writes a section header
func Section(w io.Writer, title string) {
	fmt.Fprintln(w)
	if IsTerminal() {
		fmt.Fprintln(w, "━━━ "+strings.ToUpper(title)+" ━━━")
		return
	}
	fmt.Fprintln(w, strings.ToUpper(title))
	fmt.Fprintln(w, strings.Repeat("=", len(title)+6))
}

// Field writes an aligned "label: value" line
func Field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", Dim(fmt.Sprintf("%-14s", label+":")), value)
}

// FormatBytes formats an estimated size using go-humanize. Zero means
// unknown.
func FormatBytes(bytes int64) string {
	if bytes <= 0 {
		return "unknown"
	}
	return humanize.Bytes(uint64(bytes))
}

// FormatScore renders a quality score with thousands separators.
func FormatScore(score float64) string {
	return humanize.CommafWithDigits(score, 1)
}
