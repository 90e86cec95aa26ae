package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/five82/folio/internal/folio"
	"github.com/five82/folio/internal/logging"
	"github.com/five82/folio/internal/prefs"
	"github.com/five82/folio/internal/state"
)

// View is the screen currently shown.
type View int

const (
	ViewTable View = iota
	ViewActivity
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *state.Controller
	Logger     *log.Logger

	ThemeName string
	PrefsPath string
	// StartView is persisted to prefs alongside the theme.
	StartView string

	// RefreshInterval is the background refresh period; zero disables it.
	RefreshInterval time.Duration
	// LogPath is the file the activity view tails.
	LogPath string
	// Preloaded skips the initial fetch when the controller already holds
	// the first page.
	Preloaded bool

	// OpenURL and CopyURL default to the system browser and clipboard.
	OpenURL func(string) error
	CopyURL func(string) error
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx             context.Context
	ctrl            *state.Controller
	logger          *log.Logger
	prefsPath       string
	startView       string
	logPath         string
	refreshInterval time.Duration
	preloaded       bool
	openURL         func(string) error
	copyURL         func(string) error

	keys   keyMap
	theme  Theme
	width  int
	height int
	ready  bool

	snapshot state.ViewState
	view     View

	selected   int
	selectedID string

	modal    Modal
	search   searchState
	spinner  spinner.Model
	activity activityState

	flash   string
	flashID int
}

// New creates the model. It renders whatever the controller already holds;
// Init issues the first fetch.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	openURL := opts.OpenURL
	if openURL == nil {
		openURL = openInBrowser
	}
	copyURL := opts.CopyURL
	if copyURL == nil {
		copyURL = copyToClipboard
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		ctx:             ctx,
		ctrl:            opts.Controller,
		logger:          logger,
		prefsPath:       prefsPath,
		startView:       opts.StartView,
		logPath:         opts.LogPath,
		refreshInterval: opts.RefreshInterval,
		preloaded:       opts.Preloaded,
		openURL:         openURL,
		copyURL:         copyURL,
		keys:            DefaultKeyMap(),
		theme:           GetTheme(opts.ThemeName),
		spinner:         sp,
		search:          newSearchState(),
		activity:        newActivityState(),
	}
	m.sync()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.ctrl != nil && !m.preloaded {
		cmds = append(cmds, m.runOp(m.ctrl.Load()))
	}
	if m.refreshInterval > 0 {
		cmds = append(cmds, refreshTickCmd(m.refreshInterval))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeActivity()
		return m, nil

	case resultMsg:
		m.ctrl.Apply(msg.res)
		m.sync()
		return m, nil

	case refreshTickMsg:
		cmds := []tea.Cmd{refreshTickCmd(m.refreshInterval)}
		if m.ctrl != nil {
			if cmd := m.runOp(m.ctrl.Refresh()); cmd != nil {
				cmds = append(cmds, cmd)
			}
			m.sync()
		}
		if m.view == ViewActivity {
			cmds = append(cmds, loadActivityCmd(m.logPath, m.activity.level))
		}
		return m, tea.Batch(cmds...)

	case activityMsg:
		m.activity.apply(msg)
		m.refreshActivity()
		return m, nil

	case flashMsg:
		return m, m.setFlash(string(msg))

	case clearFlashMsg:
		if int(msg) == m.flashID {
			m.flash = ""
		}
		return m, nil

	case prefsErrorMsg:
		m.logger.Warn("save preferences failed", "path", m.prefsPath, "err", msg.err)
		return m, m.setFlash("Could not save preferences.")

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.modal != nil {
		var cmd tea.Cmd
		m.modal, cmd, _ = m.modal.Update(msg, m.keys)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.keys, m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderBanner())
	b.WriteString("\n")
	if m.view == ViewActivity {
		b.WriteString(m.renderActivity())
	} else {
		b.WriteString(m.renderTable())
	}
	b.WriteString("\n")
	b.WriteString(m.renderDetailLine())
	return b.String()
}

// sync copies the controller state into the model and keeps the modal and
// selection consistent with it.
func (m *Model) sync() {
	if m.ctrl == nil {
		return
	}
	m.snapshot = m.ctrl.Snapshot()

	if am, ok := m.modal.(*addModal); ok {
		if !m.snapshot.Modal.Open {
			m.modal = nil
		} else {
			am.sync(m.snapshot.Modal, m.snapshot.Loading)
		}
	}
	m.clampSelection()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		return m.handleModalKey(msg)
	}
	if m.search.active {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.modal = helpModal{}
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		return m, savePrefsCmd(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, StartView: m.startView})

	case key.Matches(msg, m.keys.Activity):
		if m.view == ViewActivity {
			m.view = ViewTable
			return m, nil
		}
		m.view = ViewActivity
		m.resizeActivity()
		return m, loadActivityCmd(m.logPath, m.activity.level)
	}

	if m.view == ViewActivity {
		return m.handleActivityKey(msg)
	}
	return m.handleTableKey(msg)
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ctrl == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.search.clear()
		m.clampSelection()
		return m, nil

	case key.Matches(msg, m.keys.ToggleArchived):
		return m.changeView(m.ctrl.ToggleArchived())

	case key.Matches(msg, m.keys.TogglePocket):
		return m.changeView(m.ctrl.ToggleImportedFeed())

	case key.Matches(msg, m.keys.CycleStatus):
		op := m.ctrl.CycleStatusFilter()
		m.sync()
		if m.snapshot.Filter != state.ShowImportedFeed {
			return m, m.setFlash("Pocket status: " + m.snapshot.StatusFilter)
		}
		m.resetSelection()
		return m, m.runOp(op)

	case key.Matches(msg, m.keys.Reload):
		op := m.ctrl.Reload()
		m.sync()
		return m, m.runOp(op)

	case key.Matches(msg, m.keys.Add):
		m.ctrl.OpenModal()
		m.modal = newAddModal()
		m.sync()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Archive):
		return m.archiveSelected()

	case key.Matches(msg, m.keys.Open):
		if u := m.selectedURL(); u != "" {
			return m, openURLCmd(u, m.openURL, m.copyURL)
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if u := m.selectedURL(); u != "" {
			return m, copyURLCmd(u, m.copyURL)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.search.begin()
		return m, textinput.Blink
	}

	m.moveSelection(msg)
	return m, nil
}

func (m Model) changeView(op state.Op) (tea.Model, tea.Cmd) {
	m.search.clear()
	m.resetSelection()
	m.sync()
	return m, m.runOp(op)
}

func (m Model) archiveSelected() (tea.Model, tea.Cmd) {
	if !m.snapshot.Filter.IsBookmarks() {
		return m, nil
	}
	b, ok := m.selectedBookmark()
	if !ok {
		return m, nil
	}
	op := m.ctrl.Archive(b.ID)
	m.sync()
	if op == nil {
		if b.Archived {
			return m, m.setFlash("Already archived.")
		}
		return m, nil
	}
	return m, m.runOp(op)
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	am, isAdd := m.modal.(*addModal)
	if !isAdd {
		var closeReq bool
		m.modal, _, closeReq = m.modal.Update(msg, m.keys)
		if closeReq {
			m.modal = nil
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Confirm) {
		if !am.canSubmit() {
			return m, nil
		}
		op := m.ctrl.SubmitBookmark()
		m.sync()
		return m, m.runOp(op)
	}

	_, cmd, closeReq := am.Update(msg, m.keys)
	if closeReq {
		if m.ctrl.CloseModal() {
			m.modal = nil
		}
		m.sync()
		return m, nil
	}
	m.ctrl.SetModalInput(am.value())
	m.sync()
	return m, cmd
}

func (m *Model) setFlash(text string) tea.Cmd {
	m.flashID++
	m.flash = text
	id := m.flashID
	return tea.Tick(FlashDuration, func(time.Time) tea.Msg {
		return clearFlashMsg(id)
	})
}

// runOp runs a controller Op off the update loop.
func (m Model) runOp(op state.Op) tea.Cmd {
	if op == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg{res: op(ctx)}
	}
}

// Messages

type resultMsg struct {
	res state.Result
}

type refreshTickMsg time.Time

type flashMsg string

type clearFlashMsg int

type prefsErrorMsg struct {
	err error
}

func refreshTickCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func savePrefsCmd(path string, p prefs.Prefs) tea.Cmd {
	return func() tea.Msg {
		if err := prefs.Save(path, p); err != nil {
			return prefsErrorMsg{err: err}
		}
		return nil
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	if opts.Controller == nil {
		return fmt.Errorf("ui: controller is required")
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(contextOrBackground(opts.Context)))
	_, err := p.Run()
	return err
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func (m Model) selectedBookmark() (folio.Bookmark, bool) {
	rows := m.visibleBookmarks()
	if m.selected < 0 || m.selected >= len(rows) {
		return folio.Bookmark{}, false
	}
	return rows[m.selected], true
}

func (m Model) selectedLink() (folio.ImportedLink, bool) {
	rows := m.visibleLinks()
	if m.selected < 0 || m.selected >= len(rows) {
		return folio.ImportedLink{}, false
	}
	return rows[m.selected], true
}

func (m Model) selectedURL() string {
	if m.snapshot.Filter == state.ShowImportedFeed {
		if l, ok := m.selectedLink(); ok {
			return l.URL
		}
		return ""
	}
	if b, ok := m.selectedBookmark(); ok {
		return b.URL
	}
	return ""
}
