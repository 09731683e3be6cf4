package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	statusStyles = map[models.EntryStatus]lipgloss.Style{
		models.EntryStatusCompleted: okStyle,
		models.EntryStatusPartial:   warnStyle,
		models.EntryStatusFailed:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		models.EntryStatusNone:      mutedStyle,
	}

	statusSymbols = map[models.EntryStatus]string{
		models.EntryStatusCompleted: "●",
		models.EntryStatusPartial:   "◐",
		models.EntryStatusFailed:    "✗",
		models.EntryStatusNone:      "·",
	}
)

func statusMark(s models.EntryStatus) string {
	return statusStyles[s].Render(statusSymbols[s])
}

// progressBar renders a fixed-width bar for a 0-100 percentage.
func progressBar(pct, width int) string {
	pct = max(0, min(100, pct))
	filled := pct * width / 100
	return okStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatSchedule(tod models.TimeOfDay) string {
	if !tod.IsMultiPart() {
		return string(tod.FirstPeriod())
	}
	parts := make([]string, 0, len(tod.Parts))
	for _, p := range tod.Parts {
		parts = append(parts, fmt.Sprintf("%d:%s", p.PartIndex+1, p.Time))
	}
	return strings.Join(parts, ",")
}

// formatEntry describes the payload of an entry for its habit type.
func formatEntry(t models.HabitType, e *models.Entry) string {
	if e == nil {
		return mutedStyle.Render("no entry")
	}
	var b strings.Builder
	b.WriteString(statusMark(models.StatusFor(t, e)))
	switch t.Kind {
	case models.KindMultiCheckbox:
		marks := make([]string, 0, t.Parts)
		for i := 0; i < t.Parts; i++ {
			if i < len(e.CheckboxState.Parts) && e.CheckboxState.Parts[i] {
				marks = append(marks, "x")
			} else {
				marks = append(marks, " ")
			}
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(marks, "]["))
	case models.KindText:
		if e.HasText() {
			fmt.Fprintf(&b, " %q", e.TextValue)
		}
	case models.KindEmoji:
		if e.HasEmoji() {
			b.WriteString(" " + e.EmojiValue)
		}
	}
	if e.CheckboxState.Failed {
		b.WriteString(" " + warnStyle.Render("(failed)"))
	}
	if e.Comment != "" {
		b.WriteString(" " + mutedStyle.Render("// "+e.Comment))
	}
	return b.String()
}
