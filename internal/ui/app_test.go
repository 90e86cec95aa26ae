package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/five82/folio/internal/folio"
	"github.com/five82/folio/internal/prefs"
	"github.com/five82/folio/internal/state"
)

type stubAPI struct {
	mu        sync.Mutex
	bookmarks map[bool][]folio.Bookmark
	links     []folio.ImportedLink
	createErr error
	calls     map[string]int
}

func newStubAPI() *stubAPI {
	return &stubAPI{bookmarks: map[bool][]folio.Bookmark{}, calls: map[string]int{}}
}

func (s *stubAPI) ListBookmarks(_ context.Context, archived bool) ([]folio.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["list"]++
	return append([]folio.Bookmark(nil), s.bookmarks[archived]...), nil
}

func (s *stubAPI) CreateBookmark(_ context.Context, rawURL string) (folio.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["create"]++
	if s.createErr != nil {
		return folio.Bookmark{}, s.createErr
	}
	return folio.Bookmark{ID: "new", URL: rawURL, Title: rawURL}, nil
}

func (s *stubAPI) ArchiveBookmark(_ context.Context, id string) (folio.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["archive"]++
	return folio.Bookmark{ID: id, Archived: true}, nil
}

func (s *stubAPI) ListImportedLinks(_ context.Context, _ string) ([]folio.ImportedLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["links"]++
	return append([]folio.ImportedLink(nil), s.links...), nil
}

func (s *stubAPI) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

type harness struct {
	t      *testing.T
	api    *stubAPI
	ctrl   *state.Controller
	m      Model
	copied []string
}

func newHarness(t *testing.T, api *stubAPI, filter state.Filter) *harness {
	t.Helper()
	h := &harness{t: t, api: api}
	h.ctrl = state.New(api, state.Options{Filter: filter})
	h.ctrl.Apply(h.ctrl.Load()(context.Background()))

	h.m = New(Options{
		Controller: h.ctrl,
		PrefsPath:  filepath.Join(t.TempDir(), "prefs.toml"),
		OpenURL:    func(string) error { return errors.New("no browser") },
		CopyURL: func(u string) error {
			h.copied = append(h.copied, u)
			return nil
		},
	})
	h.send(tea.WindowSizeMsg{Width: 140, Height: 30})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	updated, cmd := h.m.Update(msg)
	h.m = updated.(Model)
	return cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func (h *harness) press(k string) tea.Cmd {
	h.t.Helper()
	return h.send(keyMsg(k))
}

// finish runs a command that carries a controller result and feeds it back.
func (h *harness) finish(cmd tea.Cmd) {
	h.t.Helper()
	assert.Assert(h.t, cmd != nil, "expected a command")
	msg := cmd()
	_, ok := msg.(resultMsg)
	assert.Assert(h.t, ok, "expected resultMsg, got %T", msg)
	h.send(msg)
}

func TestModel_ArchiveRemovesRow(t *testing.T) {
	api := newStubAPI()
	api.bookmarks[false] = []folio.Bookmark{
		{ID: "1", URL: "http://a.com", Title: "A"},
		{ID: "2", URL: "http://b.com", Title: "B"},
	}
	h := newHarness(t, api, state.ShowActive)
	assert.Assert(t, is.Contains(h.m.View(), "Bookmarks: 2"))

	h.finish(h.press("x"))

	assert.Equal(t, api.count("archive"), 1)
	view := h.m.View()
	assert.Assert(t, is.Contains(view, "Bookmarks: 1"))
	assert.Assert(t, !strings.Contains(view, "a.com"))
	assert.Equal(t, h.m.selectedID, "2")
}

func TestModel_ArchiveInArchivedViewIsNoop(t *testing.T) {
	api := newStubAPI()
	api.bookmarks[true] = []folio.Bookmark{{ID: "9", URL: "http://old.com", Title: "Old", Archived: true}}
	h := newHarness(t, api, state.ShowArchived)

	view := h.m.View()
	assert.Assert(t, is.Contains(view, "Restore"))

	cmd := h.press("x")
	assert.Assert(t, cmd != nil, "expected a flash timer")
	assert.Equal(t, api.count("archive"), 0)
	assert.Equal(t, h.m.flash, "Already archived.")
	assert.Equal(t, h.m.snapshot.Count(), 1)
}

func TestModel_EmptyAndLoadingStates(t *testing.T) {
	api := newStubAPI()
	h := newHarness(t, api, state.ShowActive)
	assert.Assert(t, is.Contains(h.m.View(), msgNoBookmarks))

	cmd := h.press("R")
	assert.Assert(t, is.Contains(h.m.View(), msgLoadingBookmarks))
	h.finish(cmd)
	assert.Assert(t, is.Contains(h.m.View(), msgNoBookmarks))

	cmd = h.press("p")
	assert.Assert(t, is.Contains(h.m.View(), msgLoadingLinks))
	h.finish(cmd)
	assert.Assert(t, is.Contains(h.m.View(), msgNoLinks))
}

func TestModel_AddConflictKeepsModalOpen(t *testing.T) {
	api := newStubAPI()
	api.createErr = &folio.APIError{Status: 409, Message: "conflict", Detail: "already exists"}
	h := newHarness(t, api, state.ShowActive)

	h.press("a")
	_, isAdd := h.m.modal.(*addModal)
	assert.Assert(t, isAdd)

	h.press("http://dup.com")
	assert.Equal(t, h.m.snapshot.Modal.Input, "http://dup.com")

	h.finish(h.press("enter"))

	assert.Equal(t, api.count("create"), 1)
	assert.Assert(t, h.m.modal != nil, "modal stays open")
	assert.Assert(t, is.Contains(h.m.View(), state.MsgAlreadyBookmarked))
	assert.Equal(t, h.m.snapshot.ErrorMessage, "")
	assert.Equal(t, h.m.snapshot.Modal.Input, "http://dup.com")
	assert.Equal(t, h.m.snapshot.Count(), 0)
}

func TestModel_AddSuccessClosesModal(t *testing.T) {
	api := newStubAPI()
	h := newHarness(t, api, state.ShowActive)

	h.press("a")
	h.press("https://go.dev")
	h.finish(h.press("enter"))

	assert.Assert(t, h.m.modal == nil)
	assert.Equal(t, h.m.snapshot.Count(), 1)
	assert.Assert(t, is.Contains(h.m.View(), "go.dev"))
}

func TestModel_AddRequiresURL(t *testing.T) {
	api := newStubAPI()
	h := newHarness(t, api, state.ShowActive)

	h.press("a")
	cmd := h.press("enter")

	assert.Assert(t, cmd == nil)
	assert.Equal(t, api.count("create"), 0)
	assert.Assert(t, is.Contains(h.m.View(), state.MsgURLRequired))
}

func TestModel_ModalCannotCloseWhileSubmitting(t *testing.T) {
	api := newStubAPI()
	h := newHarness(t, api, state.ShowActive)

	h.press("a")
	h.press("http://a.com")
	cmd := h.press("enter")
	assert.Assert(t, is.Contains(h.m.View(), "Adding..."))

	h.press("esc")
	assert.Assert(t, h.m.modal != nil, "esc ignored while submitting")
	assert.Assert(t, h.press("enter") == nil, "submit disabled while submitting")

	h.finish(cmd)
	assert.Assert(t, h.m.modal == nil)
	assert.Equal(t, api.count("create"), 1)
}

func TestModel_ModalEscCancels(t *testing.T) {
	api := newStubAPI()
	h := newHarness(t, api, state.ShowActive)

	h.press("a")
	h.press("http://a.com")
	h.press("esc")

	assert.Assert(t, h.m.modal == nil)
	assert.Equal(t, h.m.snapshot.Modal, state.ModalState{})
}

func TestModel_PocketFeedRendering(t *testing.T) {
	api := newStubAPI()
	api.links = []folio.ImportedLink{
		{ID: "p1", Title: "Tagged", URL: "http://t.com", Tags: []string{"a", "b", "c", "d"},
			Status: "unread", AddedAt: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)},
		{ID: "p2", Title: "Bare", URL: "http://b.com", Status: "archive"},
	}
	h := newHarness(t, api, state.ShowActive)

	h.finish(h.press("p"))

	view := h.m.View()
	assert.Assert(t, is.Contains(view, "Pocket Links"))
	assert.Assert(t, is.Contains(view, "Links: 2"))
	assert.Assert(t, is.Contains(view, "a, b, c +1"))
	assert.Assert(t, is.Contains(view, "No tags"))
	assert.Assert(t, is.Contains(view, "Jan 15, 2024"))

	h.finish(h.press("p"))
	assert.Equal(t, h.m.snapshot.Filter, state.ShowActive)
}

func TestModel_StatusCycleOutsideFeed(t *testing.T) {
	api := newStubAPI()
	h := newHarness(t, api, state.ShowActive)

	h.press("s")
	assert.Equal(t, api.count("links"), 0)
	assert.Equal(t, h.m.snapshot.StatusFilter, folio.StatusArchive)
	assert.Equal(t, h.m.flash, "Pocket status: archive")
}

func TestModel_RapidToggleShowsLatestFilter(t *testing.T) {
	api := newStubAPI()
	api.bookmarks[false] = []folio.Bookmark{{ID: "a1", URL: "http://active.com", Title: "Active one"}}
	api.bookmarks[true] = []folio.Bookmark{{ID: "z1", URL: "http://archived.com", Title: "Archived one", Archived: true}}
	h := newHarness(t, api, state.ShowActive)

	toArchived := h.press("v")
	toActive := h.press("v")

	newer := toActive()
	older := toArchived()
	h.send(newer)
	h.send(older)

	assert.Equal(t, h.m.snapshot.Filter, state.ShowActive)
	view := h.m.View()
	assert.Assert(t, is.Contains(view, "Active one"))
	assert.Assert(t, !strings.Contains(view, "Archived one"))
}

func TestModel_SearchFiltersRows(t *testing.T) {
	api := newStubAPI()
	api.bookmarks[false] = []folio.Bookmark{
		{ID: "1", URL: "https://go.dev", Title: "The Go Programming Language"},
		{ID: "2", URL: "https://rust-lang.org", Title: "Rust"},
	}
	h := newHarness(t, api, state.ShowActive)

	h.press("/")
	assert.Assert(t, h.m.search.active)
	h.press("golang")
	h.press("enter")

	rows := h.m.visibleBookmarks()
	assert.Assert(t, is.Len(rows, 1))
	assert.Equal(t, rows[0].ID, "1")
	assert.Assert(t, is.Contains(h.m.View(), "(1/2)"))

	h.press("esc")
	assert.Assert(t, is.Len(h.m.visibleBookmarks(), 2))
}

func TestModel_CopyAndOpenFallback(t *testing.T) {
	api := newStubAPI()
	api.bookmarks[false] = []folio.Bookmark{{ID: "1", URL: "http://a.com", Title: "A"}}
	h := newHarness(t, api, state.ShowActive)

	msg := h.press("y")()
	assert.Equal(t, msg, tea.Msg(flashMsg("URL copied to clipboard.")))

	msg = h.press("o")()
	assert.Equal(t, msg, tea.Msg(flashMsg("Could not open a browser; URL copied to clipboard.")))
	assert.DeepEqual(t, h.copied, []string{"http://a.com", "http://a.com"})
}

func TestModel_ThemeCycleSavesPrefs(t *testing.T) {
	api := newStubAPI()
	h := newHarness(t, api, state.ShowActive)
	assert.Equal(t, h.m.theme.Name, "Dracula")

	cmd := h.press("T")
	assert.Equal(t, h.m.theme.Name, "Nord")
	assert.Assert(t, cmd() == nil)

	saved := prefs.Load(h.m.prefsPath)
	assert.Equal(t, saved.Theme, "Nord")
}

func TestModel_HelpOverlay(t *testing.T) {
	api := newStubAPI()
	h := newHarness(t, api, state.ShowActive)

	h.press("?")
	assert.Assert(t, is.Contains(h.m.View(), "Keyboard Shortcuts"))
	h.press("j")
	assert.Assert(t, h.m.modal == nil)
}

func TestModel_NavigationClamps(t *testing.T) {
	api := newStubAPI()
	api.bookmarks[false] = []folio.Bookmark{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	h := newHarness(t, api, state.ShowActive)

	h.press("G")
	assert.Equal(t, h.m.selected, 2)
	h.press("j")
	assert.Equal(t, h.m.selected, 2)
	h.press("g")
	h.press("k")
	assert.Equal(t, h.m.selected, 0)
	h.press("j")
	assert.Equal(t, h.m.selectedID, "2")
}

func TestModel_BannerShowsControllerError(t *testing.T) {
	api := newStubAPI()
	api.bookmarks[false] = []folio.Bookmark{{ID: "1", URL: "http://a.com"}}
	h := newHarness(t, api, state.ShowActive)
	api.createErr = &folio.APIError{Status: 500, Message: "boom"}

	h.press("a")
	h.press("http://b.com")
	h.finish(h.press("enter"))
	h.press("esc")

	assert.Assert(t, h.m.modal == nil)
	assert.Assert(t, is.Contains(h.m.View(), state.MsgAddFailed))
}

func TestModel_QuitKey(t *testing.T) {
	h := newHarness(t, newStubAPI(), state.ShowActive)
	cmd := h.press("q")
	assert.Assert(t, cmd != nil)
	_, ok := cmd().(tea.QuitMsg)
	assert.Assert(t, ok)
}
