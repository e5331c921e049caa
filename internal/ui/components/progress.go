package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studypulse/internal/ui/theme"
)

// ScoreBar displays a 0-100 score as a horizontal bar colored by grade.
type ScoreBar struct {
	Label      string
	LabelWidth int
	Score      float64
	Width      int
}

// NewScoreBar creates a new score bar.
func NewScoreBar(label string, score float64, width int) ScoreBar {
	return ScoreBar{
		Label: label,
		Score: score,
		Width: width,
	}
}

// View renders the bar followed by the score.
func (b ScoreBar) View() string {
	var result string

	if b.Label != "" {
		label := b.Label
		if pad := b.LabelWidth - lipgloss.Width(label); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  "
	}

	const scoreWidth = 8 // "  100.0%"
	barWidth := b.Width - lipgloss.Width(result) - scoreWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * b.Score / 100)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	color := theme.ScoreColor(b.Score).GetForeground()
	result += lipgloss.NewStyle().Background(color).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))

	result += lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %5.1f%%", b.Score))

	return result
}
