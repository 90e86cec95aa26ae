package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/state"
)

// renderHeader renders the top status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	snap := m.snapshot

	parts := []string{bg.Render("folio", styles.Logo)}

	label := snap.Filter.Label()
	if snap.Filter == state.ShowImportedFeed {
		label += " · " + titleCase(snap.StatusFilter)
	}
	parts = append(parts, bg.Render(label, styles.Text.Bold(true)))

	countLabel := "Bookmarks:"
	if snap.Filter == state.ShowImportedFeed {
		countLabel = "Links:"
	}
	parts = append(parts,
		bg.Render(countLabel, styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", snap.Count()), styles.Text))

	switch {
	case snap.Loading:
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText)+bg.Space()+
			bg.Render("Loading...", styles.WarningText))
	case snap.Modal.Submitting:
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText)+bg.Space()+
			bg.Render("Adding...", styles.WarningText))
	case snap.Refreshing:
		parts = append(parts, bg.Render(m.spinner.View(), styles.FaintText))
	}

	if snap.IsOffline() {
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	} else if snap.RefreshFailures > 0 && !compact {
		parts = append(parts, bg.Render("refresh paused", styles.WarningText))
	}

	if ts := formatTimestamp(snap.LastUpdated, time.Now()); ts != "" {
		if compact {
			ts = snap.LastUpdated.Format("15:04")
		}
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Padding(0, 1).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// formatTimestamp renders the last update time with a relative hint.
func formatTimestamp(updated, now time.Time) string {
	if updated.IsZero() {
		return ""
	}
	since := now.Sub(updated)
	stamp := updated.Format("15:04:05")
	switch {
	case since < time.Minute:
		return stamp + " (now)"
	case since < time.Hour:
		return stamp + fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		return stamp + fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	default:
		return stamp
	}
}

// renderCommandBar renders the key hints for the current screen.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.view == ViewActivity:
		level := m.activity.level
		if level == "" {
			level = "all"
		}
		commands = []cmd{
			{"f", "Level: " + level},
			{"j/k", "Scroll"},
			{"R", "Reload"},
			{"esc", "Back"},
			{"?", "More"},
		}
	case m.snapshot.Filter == state.ShowImportedFeed:
		commands = []cmd{
			{"s", "Status: " + m.snapshot.StatusFilter},
			{"p", "Bookmarks"},
			{"o", "Open"},
			{"y", "Copy"},
			{"/", "Filter"},
			{"a", "Add"},
			{"R", "Reload"},
			{"?", "More"},
		}
	default:
		toggle := "Archived"
		if m.snapshot.Filter == state.ShowArchived {
			toggle = "Active"
		}
		commands = []cmd{
			{"a", "Add"},
			{"x", "Archive"},
			{"v", toggle},
			{"p", "Pocket"},
			{"o", "Open"},
			{"y", "Copy"},
			{"/", "Filter"},
			{"R", "Reload"},
			{"?", "More"},
		}
	}

	colon := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface)).Render(":")
	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.search.active {
		segments = append(segments, m.search.input.View())
	} else if m.search.query != "" {
		segments = append(segments, bg.Render("/"+truncate(m.search.query, 18), styles.AccentText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// renderBanner renders the error banner, or a transient flash, or a blank
// line so the layout does not jump.
func (m Model) renderBanner() string {
	styles := m.theme.Styles()
	if msg := strings.TrimSpace(m.snapshot.ErrorMessage); msg != "" {
		return styles.Banner.Width(m.width).Render("! " + msg)
	}
	if m.flash != "" {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Info)).
			Padding(0, 1).
			Width(m.width).
			Render(m.flash)
	}
	return lipgloss.NewStyle().Width(m.width).Render("")
}

// renderDetailLine shows the selected row's full URL and date.
func (m Model) renderDetailLine() string {
	styles := m.theme.Styles()
	style := lipgloss.NewStyle().Padding(0, 1).Width(m.width)

	if m.view == ViewActivity {
		path := m.logPath
		if path == "" {
			path = "logging disabled"
		}
		return style.Render(styles.FaintText.Render("log ") + styles.MutedText.Render(truncateMiddle(path, m.width-8)))
	}

	var u, when string
	if m.snapshot.Filter == state.ShowImportedFeed {
		if l, ok := m.selectedLink(); ok {
			u = l.URL
			when = "added " + FormatAddedAt(l.AddedAt)
		}
	} else if b, ok := m.selectedBookmark(); ok {
		u = b.URL
		if !b.CreatedAt.IsZero() {
			when = "saved " + FormatAddedAt(b.CreatedAt)
		}
	}
	if u == "" {
		return style.Render("")
	}

	room := m.width - 4 - len([]rune(when))
	line := styles.AccentText.Render(truncateMiddle(u, room))
	if when != "" {
		line += "  " + styles.FaintText.Render(when)
	}
	return style.Render(line)
}
