package report

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// SetColorEnabled turns colored labels on or off.
func SetColorEnabled(enabled bool) {
	color.NoColor = !enabled
}

// DisableColorIfNotTTY turns colors off when stdout is redirected.
func DisableColorIfNotTTY() {
	if !IsTTY() {
		color.NoColor = true
	}
}

var (
	exactLabel    = color.New(color.Bold, color.FgGreen).SprintFunc()
	fuzzyLabel    = color.New(color.Bold, color.FgYellow).SprintFunc()
	notFoundLabel = color.New(color.Bold, color.FgRed).SprintFunc()
	errorLabel    = color.New(color.FgMagenta).SprintFunc()

	// Dim is used for excerpts around a match.
	Dim = color.New(color.Faint).SprintFunc()
	// Highlight marks the matched span.
	Highlight = color.New(color.Bold, color.Underline).SprintFunc()
)

// StatusLabel colors an outcome for terminal output.
func StatusLabel(outcome string) string {
	switch outcome {
	case OutcomeExact:
		return exactLabel(outcome)
	case OutcomeFuzzy:
		return fuzzyLabel(outcome)
	case OutcomeNotFound:
		return notFoundLabel(outcome)
	default:
		return errorLabel(outcome)
	}
}

// Excerpt renders before, found and after with the found span highlighted.
func Excerpt(r Record) string {
	out := Highlight(r.Found)
	if r.Before != "" {
		out = Dim(r.Before) + " " + out
	}
	if r.After != "" {
		out += " " + Dim(r.After)
	}
	return out
}
