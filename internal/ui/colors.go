// Package ui holds the ANSI styling used by the CLI output.
package ui

import (
	"fmt"
	"io"
	"strings"
)

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[97m"
	ColorRed    = "\033[31m"
)

// RuleWidth is the width of section separators.
const RuleWidth = 80

func Bold(s string) string {
	return ColorBold + s + ColorReset
}

func Dim(s string) string {
	return ColorDim + s + ColorReset
}

func Success(s string) string {
	return ColorGreen + s + ColorReset
}

func Info(s string) string {
	return ColorDim + ColorYellow + s + ColorReset
}

func Error(s string) string {
	return ColorRed + s + ColorReset
}

// Highlight renders s in bright white.
func Highlight(s string) string {
	return ColorWhite + s + ColorReset
}

// Heading writes a bold section title preceded by a blank line.
func Heading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", Bold(title))
}

// Rule writes a separator line.
func Rule(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", RuleWidth))
}

// Field writes an indented "label: value" line with the label dimmed.
// Empty values are shown as a dash.
func Field(w io.Writer, label, value string) {
	if value == "" {
		value = "-"
	}
	fmt.Fprintf(w, "  %s %s\n", Dim(label+":"), Highlight(value))
}
