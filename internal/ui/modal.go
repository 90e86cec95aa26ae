package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/state"
)

// Modal is a dialog drawn over the whole screen. Update reports whether the
// modal asked to close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, keys keyMap, width, height int) string
}

const addModalWidth = 60

// addModal echoes the URL being typed. Submission state and errors live in
// the controller and are copied in by sync.
type addModal struct {
	input  textinput.Model
	status state.ModalState
	// busy is the table's loading flag; submit is disabled while it is set.
	busy bool
}

func newAddModal() *addModal {
	ti := textinput.New()
	ti.Placeholder = "https://example.com/article"
	ti.Prompt = "URL: "
	ti.CharLimit = 2048
	ti.Width = addModalWidth - 12
	ti.Focus()
	return &addModal{input: ti}
}

func (a *addModal) sync(ms state.ModalState, loading bool) {
	a.status = ms
	a.busy = loading
	if a.input.Value() != ms.Input {
		a.input.SetValue(ms.Input)
		a.input.CursorEnd()
	}
}

// canSubmit reports whether the submit control is enabled.
func (a *addModal) canSubmit() bool {
	return !a.status.Submitting && !a.busy
}

func (a *addModal) value() string {
	return a.input.Value()
}

func (a *addModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd, false
	}
	if key.Matches(keyMsg, keys.Escape) {
		return a, nil, true
	}
	if a.status.Submitting {
		return a, nil, false
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(keyMsg)
	return a, cmd, false
}

func (a *addModal) View(theme Theme, _ keyMap, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Add Bookmark"))
	b.WriteString("\n\n")
	b.WriteString(a.input.View())
	b.WriteString("\n\n")

	if msg := strings.TrimSpace(a.status.Error); msg != "" {
		b.WriteString(styles.DangerText.Render(msg))
		b.WriteString("\n\n")
	}

	b.WriteString(a.renderButtons(theme, styles))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderFocus)).
		Padding(1, 2).
		Width(addModalWidth).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

func (a *addModal) renderButtons(theme Theme, styles Styles) string {
	button := lipgloss.NewStyle().Padding(0, 2)

	submit := button.
		Background(lipgloss.Color(theme.Accent)).
		Foreground(lipgloss.Color(theme.Background)).
		Bold(true).
		Render("Add")
	switch {
	case a.status.Submitting:
		submit = button.
			Background(lipgloss.Color(theme.SurfaceAlt)).
			Foreground(lipgloss.Color(theme.Muted)).
			Render("Adding...")
	case a.busy:
		submit = button.
			Background(lipgloss.Color(theme.SurfaceAlt)).
			Foreground(lipgloss.Color(theme.Muted)).
			Render("Add")
	}

	cancel := button.
		Foreground(lipgloss.Color(theme.Muted)).
		Render("Cancel")
	if a.status.Submitting {
		cancel = button.Foreground(lipgloss.Color(theme.Faint)).Render("Cancel")
	}

	hint := styles.FaintText.Render("enter submit · esc cancel")
	return lipgloss.JoinHorizontal(lipgloss.Center, submit, " ", cancel, "  ", hint)
}
