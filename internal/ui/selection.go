package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/folio/internal/state"
)

// rowIDs lists the IDs of the rows currently on screen, in order.
func (m Model) rowIDs() []string {
	if m.snapshot.Filter == state.ShowImportedFeed {
		links := m.visibleLinks()
		ids := make([]string, len(links))
		for i, l := range links {
			ids[i] = l.ID
		}
		return ids
	}
	items := m.visibleBookmarks()
	ids := make([]string, len(items))
	for i, b := range items {
		ids[i] = b.ID
	}
	return ids
}

// clampSelection keeps the cursor on the same row ID across data changes,
// falling back to the nearest valid index when that row is gone.
func (m *Model) clampSelection() {
	ids := m.rowIDs()
	if len(ids) == 0 {
		m.selected = 0
		m.selectedID = ""
		return
	}
	if m.selectedID != "" {
		for i, id := range ids {
			if id == m.selectedID {
				m.selected = i
				return
			}
		}
	}
	if m.selected >= len(ids) {
		m.selected = len(ids) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.selectedID = ids[m.selected]
}

func (m *Model) resetSelection() {
	m.selected = 0
	m.selectedID = ""
}

func (m *Model) moveSelection(msg tea.KeyMsg) {
	ids := m.rowIDs()
	count := len(ids)
	if count == 0 {
		return
	}
	page := max(m.tableRows()-1, 1)

	switch {
	case key.Matches(msg, m.keys.Down):
		m.selected++
	case key.Matches(msg, m.keys.Up):
		m.selected--
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	case key.Matches(msg, m.keys.PageDown):
		m.selected += page
	case key.Matches(msg, m.keys.PageUp):
		m.selected -= page
	default:
		return
	}
	m.selected = min(max(m.selected, 0), count-1)
	m.selectedID = ids[m.selected]
}
