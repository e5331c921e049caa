package dashboard

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studypulse/internal/performance"
	"github.com/abhisek/studypulse/internal/session"
	"github.com/abhisek/studypulse/internal/ui/components"
	"github.com/abhisek/studypulse/internal/ui/theme"
)

// RenderReport renders a progress report as styled text for a terminal
// width columns wide.
func RenderReport(p *session.Progress, width int) string {
	if width <= 0 {
		width = 80
	}
	sections := []string{
		renderSummary(p, width),
		renderAccuracy("Topics", &p.TopicAccuracy, width),
		renderAccuracy("Question types", &p.TypeAccuracy, width),
		renderWeaknesses(p),
		renderRecommendations(p),
	}

	var out []string
	for _, s := range sections {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n\n")
}

func renderSummary(p *session.Progress, width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(p.Subject))
	b.WriteString(theme.Label.Render("  " + p.SessionID))
	b.WriteString("\n\n")

	b.WriteString(components.ScoreBar{Label: "Mastery", LabelWidth: 8, Score: p.Mastery, Width: width}.View())
	b.WriteString("\n")
	b.WriteString(components.ScoreBar{Label: "Focus", LabelWidth: 8, Score: 100 - p.StrainIndex, Width: width}.View())
	b.WriteString(theme.Label.Render(fmt.Sprintf("  (strain %.1f)", p.StrainIndex)))
	b.WriteString("\n\n")

	mode := p.AdaptiveMode
	if mode == performance.ModeUnset {
		mode = performance.ModeStandard
	}
	fields := []string{
		field("Answered", fmt.Sprintf("%d/%d (%.1f%%)", p.TotalCorrect, p.TotalAttempts, p.Accuracy)),
		field("Avg time", fmt.Sprintf("%.1fs", p.AvgResponseTime)),
		field("Streak", fmt.Sprintf("%d (best %d)", p.Streak, p.BestStreak)),
		field("Mode", theme.ModeColor(mode).Render(string(mode))),
	}
	b.WriteString(strings.Join(fields, "   "))
	b.WriteString("\n")
	b.WriteString(RenderStress(p.Stress))
	return b.String()
}

// RenderStress renders a one-line stress status.
func RenderStress(s performance.StressSignal) string {
	if !s.Detected {
		return theme.Label.Render("Stress: ") + theme.Correct.Render("none")
	}
	return theme.Label.Render("Stress: ") +
		theme.Alert.Render("detected") +
		theme.Label.Render(" -> ") +
		theme.Body.Render(strings.ReplaceAll(string(s.RecommendedAction), "_", " "))
}

func renderAccuracy(title string, ts *performance.Tallies, width int) string {
	keys := ts.Keys()
	if len(keys) == 0 {
		return ""
	}
	labelWidth := 0
	for _, k := range keys {
		labelWidth = max(labelWidth, lipgloss.Width(k))
	}

	lines := []string{theme.Section.Render(title)}
	for _, k := range keys {
		t, _ := ts.Get(k)
		bar := components.ScoreBar{Label: k, LabelWidth: labelWidth, Score: t.Accuracy(), Width: width - 10}
		lines = append(lines, bar.View()+theme.Label.Render(fmt.Sprintf("  %d/%d", t.Correct, t.Total)))
	}
	return strings.Join(lines, "\n")
}

func renderWeaknesses(p *session.Progress) string {
	if len(p.WeaknessProfile) == 0 {
		return ""
	}
	return theme.Section.Render("Weakness DNA") + "\n" + RenderWeaknessProfile(p.WeaknessProfile)
}

// RenderWeaknessProfile renders weakness entries sorted by topic.
func RenderWeaknessProfile(profile map[string]performance.WeaknessEntry) string {
	if len(profile) == 0 {
		return theme.Hint.Render("No weaknesses tracked.")
	}
	topics := make([]string, 0, len(profile))
	for t := range profile {
		topics = append(topics, t)
	}
	slices.Sort(topics)

	var lines []string
	for _, t := range topics {
		w := profile[t]
		lines = append(lines, theme.Incorrect.Render(t)+
			theme.Label.Render(fmt.Sprintf("  mastery %.1f%%", w.MasteryScore)))
		if len(w.ErrorTypes) > 0 {
			lines = append(lines, "  "+field("errors", strings.Join(w.ErrorTypes, ", ")))
		}
		if len(w.RecurringPatterns) > 0 {
			lines = append(lines, "  "+field("patterns", strings.Join(w.RecurringPatterns, ", ")))
		}
	}
	return strings.Join(lines, "\n")
}

func renderRecommendations(p *session.Progress) string {
	if len(p.Recommendations) == 0 {
		return ""
	}
	lines := []string{theme.Section.Render("Recommendations")}
	for _, r := range p.Recommendations {
		lines = append(lines, theme.Body.Render("• "+r))
	}
	return strings.Join(lines, "\n")
}

func field(label, value string) string {
	return theme.Label.Render(label+": ") + theme.Body.Render(value)
}
