package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/folio/internal/folio"
	"github.com/five82/folio/internal/ui"
)

const maxTitleWidth = 60

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func writeBookmarks(w io.Writer, items []folio.Bookmark) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No bookmarks found.")
		return err
	}
	rows := make([][]string, 0, len(items))
	for _, b := range items {
		rows = append(rows, []string{b.ID, clip(b.Title, maxTitleWidth), b.URL, ui.FormatAddedAt(b.CreatedAt)})
	}
	return renderTable(w, []string{"ID", "Title", "URL", "Saved"}, rows)
}

func writeLinks(w io.Writer, links []folio.ImportedLink) error {
	if len(links) == 0 {
		_, err := fmt.Fprintln(w, "No pocket links found.")
		return err
	}
	rows := make([][]string, 0, len(links))
	for _, l := range links {
		rows = append(rows, []string{
			clip(l.Title, maxTitleWidth),
			l.URL,
			ui.FormatAddedAt(l.AddedAt),
			ui.FormatTags(l.Tags),
			l.Status,
		})
	}
	return renderTable(w, []string{"Title", "URL", "Added", "Tags", "Status"}, rows)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
