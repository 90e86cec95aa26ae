package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/folio"
)

const (
	maxVisibleTags = 3
	noTagsLabel    = "No tags"
	addedAtLayout  = "Jan 2, 2006"
)

// FormatAddedAt renders a timestamp as a calendar date in local time.
func FormatAddedAt(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(addedAtLayout)
}

// tagSummary splits tags into the ones shown and a "+N" remainder label.
func tagSummary(tags []string) (shown []string, more string) {
	if len(tags) <= maxVisibleTags {
		return tags, ""
	}
	return tags[:maxVisibleTags], fmt.Sprintf("+%d", len(tags)-maxVisibleTags)
}

// FormatTags is the plain-text tag cell.
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return noTagsLabel
	}
	shown, more := tagSummary(tags)
	out := strings.Join(shown, ", ")
	if more != "" {
		out += " " + more
	}
	return out
}

// renderTags draws the tag cell as small chips, truncated to width.
func (m Model) renderTags(tags []string, width int, selected bool) string {
	styles := m.theme.Styles()
	if len(tags) == 0 {
		if selected {
			return noTagsLabel
		}
		return styles.FaintText.Italic(true).Render(noTagsLabel)
	}
	if selected || lipgloss.Width(FormatTags(tags)) > width {
		return truncate(FormatTags(tags), width)
	}

	shown, more := tagSummary(tags)
	chip := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Info))
	parts := make([]string, 0, len(shown)+1)
	for _, t := range shown {
		parts = append(parts, chip.Render(t))
	}
	out := strings.Join(parts, styles.FaintText.Render(", "))
	if more != "" {
		out += " " + styles.AccentText.Bold(true).Render(more)
	}
	return out
}

// feedCells returns the plain cells of a Pocket row.
func feedCells(index int, l folio.ImportedLink) []string {
	return []string{
		fmt.Sprintf("%d", index+1),
		l.Title,
		FormatAddedAt(l.AddedAt),
		FormatTags(l.Tags),
		titleCase(l.Status),
	}
}
