package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/folio"
	"github.com/five82/folio/internal/state"
)

// Empty and loading placeholders.
const (
	msgNoBookmarks      = "No bookmarks found."
	msgNoLinks          = "No pocket links found."
	msgLoadingBookmarks = "Loading bookmarks..."
	msgLoadingLinks     = "Loading Pocket links..."
)

type column struct {
	title string
	width int
}

// tableHeight is the height of the titled box under the header lines.
func (m Model) tableHeight() int {
	return max(m.height-chromeRows, 3)
}

// tableRows is how many data rows fit in the box.
func (m Model) tableRows() int {
	return max(m.tableHeight()-3, 1)
}

// actionLabel is the archive control's label for a bookmark.
func actionLabel(b folio.Bookmark) string {
	if b.Archived {
		return "Restore"
	}
	return "Archive"
}

func bookmarkColumns(width int) []column {
	const idxW, actionW = 4, 9
	if width >= LayoutDescriptionWidth {
		flex := max(width-idxW-actionW-4, 0)
		titleW := flex * 40 / 100
		urlW := flex * 30 / 100
		return []column{
			{"#", idxW}, {"Title", titleW}, {"URL", urlW},
			{"Description", flex - titleW - urlW}, {"Action", actionW},
		}
	}
	flex := max(width-idxW-actionW-3, 0)
	titleW := flex * 55 / 100
	return []column{
		{"#", idxW}, {"Title", titleW}, {"URL", flex - titleW}, {"Action", actionW},
	}
}

func feedColumns(width int) []column {
	const idxW, addedW, statusW = 4, 12, 9
	flex := max(width-idxW-addedW-statusW-4, 0)
	titleW := flex * 60 / 100
	return []column{
		{"#", idxW}, {"Title", titleW}, {"Added", addedW},
		{"Tags", flex - titleW}, {"Status", statusW},
	}
}

// bookmarkCells returns the plain cells of a bookmark row for cols.
func bookmarkCells(index int, b folio.Bookmark, cols []column) []string {
	cells := []string{fmt.Sprintf("%d", index+1), b.Title, displayURL(b.URL)}
	if len(cols) == 5 {
		cells = append(cells, singleLine(b.Description))
	}
	return append(cells, actionLabel(b))
}

// renderTable renders the bookmark or Pocket table inside its box.
func (m Model) renderTable() string {
	inner := max(m.width-2, 0)
	var title, content string
	if m.snapshot.Filter == state.ShowImportedFeed {
		title, content = m.feedTitle(), m.renderFeedRows(inner)
	} else {
		title, content = m.bookmarkTitle(), m.renderBookmarkRows(inner)
	}
	return m.renderTitledBox(title, content, m.width, m.tableHeight(), true)
}

func (m Model) bookmarkTitle() string {
	total := len(m.snapshot.Visible())
	label := m.snapshot.Filter.Label()
	if m.search.query == "" {
		return fmt.Sprintf("%s (%d)", label, total)
	}
	return fmt.Sprintf("%s (%d/%d)", label, len(m.visibleBookmarks()), total)
}

func (m Model) feedTitle() string {
	total := len(m.snapshot.Links)
	label := fmt.Sprintf("%s · %s", m.snapshot.Filter.Label(), m.snapshot.StatusFilter)
	if m.search.query == "" {
		return fmt.Sprintf("%s (%d)", label, total)
	}
	return fmt.Sprintf("%s (%d/%d)", label, len(m.visibleLinks()), total)
}

func (m Model) renderBookmarkRows(width int) string {
	styles := m.theme.Styles()
	rows := m.visibleBookmarks()
	if len(rows) == 0 {
		return m.renderEmpty(width, m.emptyMessage(msgLoadingBookmarks, msgNoBookmarks))
	}

	cols := bookmarkColumns(width)
	lines := []string{m.renderColumnHeader(cols, width)}
	start, end := m.window(len(rows))
	for i := start; i < end; i++ {
		b := rows[i]
		cells := bookmarkCells(i, b, cols)
		if i == m.selected {
			lines = append(lines, styles.Selected.Width(width).Render(joinCells(cells, cols)))
			continue
		}
		actionStyle := styles.WarningText
		if b.Archived {
			actionStyle = styles.FaintText
		}
		cellStyles := []lipgloss.Style{styles.FaintText, styles.Text, styles.AccentText}
		if len(cols) == 5 {
			cellStyles = append(cellStyles, styles.MutedText)
		}
		cellStyles = append(cellStyles, actionStyle)
		lines = append(lines, styleCells(cells, cols, cellStyles))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFeedRows(width int) string {
	styles := m.theme.Styles()
	rows := m.visibleLinks()
	if len(rows) == 0 {
		return m.renderEmpty(width, m.emptyMessage(msgLoadingLinks, msgNoLinks))
	}

	cols := feedColumns(width)
	lines := []string{m.renderColumnHeader(cols, width)}
	start, end := m.window(len(rows))
	for i := start; i < end; i++ {
		l := rows[i]
		cells := feedCells(i, l)
		if i == m.selected {
			lines = append(lines, styles.Selected.Width(width).Render(joinCells(cells, cols)))
			continue
		}
		parts := []string{
			styles.FaintText.Render(fit(cells[0], cols[0].width)),
			styles.Text.Render(fit(cells[1], cols[1].width)),
			styles.MutedText.Render(fit(cells[2], cols[2].width)),
			padCell(m.renderTags(l.Tags, cols[3].width, false), cols[3].width),
			padCell(styles.StatusStyle(l.Status).Render(truncate(cells[4], cols[4].width-2)), cols[4].width),
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}

func (m Model) emptyMessage(loading, empty string) string {
	if m.snapshot.Loading {
		return loading
	}
	if m.search.query != "" {
		return fmt.Sprintf("No matches for %q.", m.search.query)
	}
	return empty
}

func (m Model) renderEmpty(width int, text string) string {
	styles := m.theme.Styles()
	return lipgloss.Place(width, m.tableHeight()-2, lipgloss.Center, lipgloss.Center,
		styles.MutedText.Render(text))
}

func (m Model) renderColumnHeader(cols []column, width int) string {
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	return m.theme.Styles().MutedText.Bold(true).Width(width).Render(joinCells(titles, cols))
}

// window returns the slice of rows to draw so the selection stays visible.
func (m Model) window(count int) (start, end int) {
	visible := m.tableRows()
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end = min(start+visible, count)
	return start, end
}

func fit(text string, width int) string {
	return padRight(truncate(text, width), width)
}

func padCell(rendered string, width int) string {
	if gap := width - lipgloss.Width(rendered); gap > 0 {
		return rendered + strings.Repeat(" ", gap)
	}
	return rendered
}

func joinCells(cells []string, cols []column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		parts[i] = fit(text, c.width)
	}
	return strings.Join(parts, " ")
}

func styleCells(cells []string, cols []column, cellStyles []lipgloss.Style) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		text := fit(cells[i], c.width)
		if i < len(cellStyles) {
			text = cellStyles[i].Render(text)
		}
		parts[i] = text
	}
	return strings.Join(parts, " ")
}

// renderTitledBox draws content in a box with the title set into the top
// border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor := m.theme.Border
	if focused {
		borderColor = m.theme.BorderFocus
	}
	bg := NewBgStyle(m.theme.SurfaceAlt)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	top := bg.Render("┌"+strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad)+"┐", borderStyle)
	bottom := bg.Render("└"+strings.Repeat("─", innerWidth)+"┘", borderStyle)

	contentStyle := lipgloss.NewStyle().
		Width(innerWidth).
		MaxWidth(innerWidth).
		Background(lipgloss.Color(m.theme.SurfaceAlt))
	side := bg.Render("│", borderStyle)

	lines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)
	body := make([]string, boxHeight)
	for i := range boxHeight {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		body[i] = side + contentStyle.Render(line) + side
	}
	return top + "\n" + strings.Join(body, "\n") + "\n" + bottom
}
