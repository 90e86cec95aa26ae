package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/logtail"
)

var activityLevels = []string{"", "info", "warn", "error"}

// activityState backs the log view opened with "l".
type activityState struct {
	viewport viewport.Model
	entries  []logtail.Entry
	level    string
	err      error
	follow   bool
}

type activityMsg struct {
	entries []logtail.Entry
	err     error
}

func newActivityState() activityState {
	return activityState{viewport: viewport.New(0, 0), follow: true}
}

func (a *activityState) apply(msg activityMsg) {
	a.err = msg.err
	if msg.err == nil {
		a.entries = msg.entries
	}
}

func loadActivityCmd(path, level string) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(path) == "" {
			return activityMsg{}
		}
		lines, err := logtail.Read(path, ActivityLineLimit)
		if err != nil {
			return activityMsg{err: err}
		}
		return activityMsg{entries: logtail.Filter(lines, level)}
	}
}

func (m *Model) resizeActivity() {
	m.activity.viewport.Width = max(m.width-2, 0)
	m.activity.viewport.Height = max(m.tableHeight()-2, 0)
	m.refreshActivity()
}

func (m *Model) refreshActivity() {
	m.activity.viewport.SetContent(m.renderActivityContent())
	if m.activity.follow {
		m.activity.viewport.GotoBottom()
	}
}

func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vp := &m.activity.viewport
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.view = ViewTable
		return m, nil
	case key.Matches(msg, m.keys.CycleLevel):
		m.activity.level = nextActivityLevel(m.activity.level)
		return m, loadActivityCmd(m.logPath, m.activity.level)
	case key.Matches(msg, m.keys.Reload):
		return m, loadActivityCmd(m.logPath, m.activity.level)
	case key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		vp.ScrollUp(1)
	case key.Matches(msg, m.keys.PageDown):
		vp.HalfPageDown()
	case key.Matches(msg, m.keys.PageUp):
		vp.HalfPageUp()
	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()
	default:
		return m, nil
	}
	m.activity.follow = vp.AtBottom()
	return m, nil
}

func nextActivityLevel(current string) string {
	for i, level := range activityLevels {
		if level == current {
			return activityLevels[(i+1)%len(activityLevels)]
		}
	}
	return activityLevels[0]
}

func (m Model) renderActivity() string {
	title := "Activity"
	if m.activity.level != "" {
		title = fmt.Sprintf("Activity (%s+)", m.activity.level)
	}
	return m.renderTitledBox(title, m.activity.viewport.View(), m.width, m.tableHeight(), true)
}

func (m Model) renderActivityContent() string {
	styles := m.theme.Styles()
	if m.activity.err != nil {
		return styles.DangerText.Render("Could not read log: " + m.activity.err.Error())
	}
	if len(m.activity.entries) == 0 {
		return styles.MutedText.Render("No log entries.")
	}

	width := m.activity.viewport.Width
	lines := make([]string, 0, len(m.activity.entries))
	for _, e := range m.activity.entries {
		lines = append(lines, m.formatActivityLine(e, width, styles))
	}
	return strings.Join(lines, "\n")
}

func (m Model) formatActivityLine(e logtail.Entry, width int, styles Styles) string {
	if e.Level == "" && e.Time.IsZero() {
		return styles.FaintText.Render(truncate(e.Raw, width))
	}
	stamp := "--:--:--"
	if !e.Time.IsZero() {
		stamp = e.Time.Local().Format("15:04:05")
	}
	level := padRight(strings.ToUpper(e.Level), 5)
	fields := e.FormatFields()

	room := width - len(stamp) - len(level) - 2
	msg := truncate(e.Message, room)
	line := styles.FaintText.Render(stamp) + " " +
		levelStyle(e.Level, styles).Bold(true).Render(level) + " " +
		styles.Text.Render(msg)
	if rest := room - len([]rune(msg)) - 1; fields != "" && rest > 3 {
		line += " " + styles.MutedText.Render(truncate(fields, rest))
	}
	return line
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "debug":
		return styles.InfoText
	case "info":
		return styles.SuccessText
	case "warn":
		return styles.WarningText
	case "error", "fatal":
		return styles.DangerText
	default:
		return styles.Text
	}
}
