package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studypulse/internal/performance"
)

// Color palette, calm and readable on dark terminals
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#EAB308") // Yellow
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Section = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// States
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Alert = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// ModeColor returns the accent color for an adaptive mode.
func ModeColor(m performance.Mode) lipgloss.Style {
	switch m {
	case performance.ModeFluencyTraining:
		return lipgloss.NewStyle().Foreground(Accent)
	case performance.ModeConceptReinforcement:
		return lipgloss.NewStyle().Foreground(Warning)
	case performance.ModeCognitiveOverload:
		return lipgloss.NewStyle().Foreground(Error)
	default:
		return lipgloss.NewStyle().Foreground(Success)
	}
}

// ScoreColor grades a 0-100 score: red below 30, yellow below 60, else green.
func ScoreColor(score float64) lipgloss.Style {
	switch {
	case score < 30:
		return lipgloss.NewStyle().Foreground(Error)
	case score < 60:
		return lipgloss.NewStyle().Foreground(Warning)
	default:
		return lipgloss.NewStyle().Foreground(Success)
	}
}
