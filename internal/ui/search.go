package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/five82/folio/internal/folio"
)

// searchState is the "/" row filter. While active, keys edit the query and
// the table narrows as it changes.
type searchState struct {
	active bool
	input  textinput.Model
	query  string
}

func newSearchState() searchState {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter"
	ti.CharLimit = 100
	return searchState{input: ti}
}

func (s *searchState) begin() {
	s.active = true
	s.input.SetValue(s.query)
	s.input.CursorEnd()
	s.input.Focus()
}

func (s *searchState) clear() {
	s.active = false
	s.query = ""
	s.input.SetValue("")
	s.input.Blur()
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.search.clear()
		m.clampSelection()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.search.active = false
		m.search.query = strings.TrimSpace(m.search.input.Value())
		m.search.input.Blur()
		m.clampSelection()
		return m, nil
	}

	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	m.search.query = strings.TrimSpace(m.search.input.Value())
	m.selected = 0
	m.selectedID = ""
	m.clampSelection()
	return m, cmd
}

type bookmarkSource []folio.Bookmark

func (s bookmarkSource) String(i int) string {
	b := s[i]
	return b.Title + " " + b.URL + " " + b.Description
}

func (s bookmarkSource) Len() int { return len(s) }

type linkSource []folio.ImportedLink

func (s linkSource) String(i int) string {
	l := s[i]
	return l.Title + " " + l.URL + " " + strings.Join(l.Tags, " ")
}

func (s linkSource) Len() int { return len(s) }

// visibleBookmarks returns the rows of the bookmark table, best match first
// when a filter query is set.
func (m Model) visibleBookmarks() []folio.Bookmark {
	rows := m.snapshot.Visible()
	if m.search.query == "" || len(rows) == 0 {
		return rows
	}
	matches := fuzzy.FindFrom(m.search.query, bookmarkSource(rows))
	out := make([]folio.Bookmark, len(matches))
	for i, match := range matches {
		out[i] = rows[match.Index]
	}
	return out
}

// visibleLinks returns the rows of the Pocket table.
func (m Model) visibleLinks() []folio.ImportedLink {
	rows := m.snapshot.Links
	if m.search.query == "" || len(rows) == 0 {
		return rows
	}
	matches := fuzzy.FindFrom(m.search.query, linkSource(rows))
	out := make([]folio.ImportedLink, len(matches))
	for i, match := range matches {
		out[i] = rows[match.Index]
	}
	return out
}
