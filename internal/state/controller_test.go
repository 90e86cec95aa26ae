package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/five82/folio/internal/folio"
)

type fakeAPI struct {
	mu sync.Mutex

	bookmarks map[bool][]folio.Bookmark
	listErr   error

	links    []folio.ImportedLink
	linksErr error

	createErr  error
	archiveErr error

	calls      map[string]int
	lastStatus string
	lastURL    string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		bookmarks: map[bool][]folio.Bookmark{},
		calls:     map[string]int{},
	}
}

func (f *fakeAPI) ListBookmarks(_ context.Context, archived bool) ([]folio.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["list"]++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]folio.Bookmark(nil), f.bookmarks[archived]...), nil
}

func (f *fakeAPI) CreateBookmark(_ context.Context, rawURL string) (folio.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++
	f.lastURL = rawURL
	if f.createErr != nil {
		return folio.Bookmark{}, f.createErr
	}
	return folio.Bookmark{ID: "new", URL: rawURL, Title: rawURL}, nil
}

func (f *fakeAPI) ArchiveBookmark(_ context.Context, id string) (folio.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["archive"]++
	if f.archiveErr != nil {
		return folio.Bookmark{}, f.archiveErr
	}
	return folio.Bookmark{ID: id, Archived: true}, nil
}

func (f *fakeAPI) ListImportedLinks(_ context.Context, status string) ([]folio.ImportedLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["links"]++
	f.lastStatus = status
	if f.linksErr != nil {
		return nil, f.linksErr
	}
	return append([]folio.ImportedLink(nil), f.links...), nil
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func run(t *testing.T, c *Controller, op Op) {
	t.Helper()
	require.NotNil(t, op, "expected a network operation")
	c.Apply(op(context.Background()))
}

func loaded(t *testing.T, api *fakeAPI, opts Options) *Controller {
	t.Helper()
	c := New(api, opts)
	run(t, c, c.Load())
	return c
}

func conflictErr() error {
	return &folio.APIError{Status: 409, Message: "api POST /bookmarks/ returned status 409", Detail: "Bookmark already exists"}
}

func serverErr() error {
	return &folio.APIError{Status: 500, Message: "api GET /bookmarks/ returned status 500"}
}

func TestController_LoadActive(t *testing.T) {
	api := newFakeAPI()
	api.bookmarks[false] = []folio.Bookmark{{ID: "1", URL: "http://a.com"}, {ID: "2", URL: "http://b.com"}}

	c := New(api, Options{})
	op := c.Load()
	require.True(t, c.Snapshot().Loading)

	c.Apply(op(context.Background()))
	snap := c.Snapshot()
	require.False(t, snap.Loading)
	require.Empty(t, snap.ErrorMessage)
	require.Len(t, snap.Items, 2)
	require.Equal(t, 2, snap.Count())
	require.False(t, snap.LastUpdated.IsZero())
}

func TestController_LoadFailureSetsBanner(t *testing.T) {
	api := newFakeAPI()
	api.bookmarks[false] = []folio.Bookmark{{ID: "1"}}
	c := loaded(t, api, Options{})

	api.listErr = serverErr()
	run(t, c, c.Reload())

	snap := c.Snapshot()
	require.Equal(t, MsgLoadBookmarksFailed, snap.ErrorMessage)
	require.False(t, snap.Loading)
	require.Len(t, snap.Items, 1, "previous rows are kept on failure")
	require.Equal(t, 1, snap.RefreshFailures)
}

func TestController_FeedLoadFailure(t *testing.T) {
	api := newFakeAPI()
	api.linksErr = errors.Join(folio.ErrTransport, errors.New("dial tcp: refused"))

	c := New(api, Options{})
	run(t, c, c.SetFilter(ShowImportedFeed))

	snap := c.Snapshot()
	require.Equal(t, ShowImportedFeed, snap.Filter)
	require.Equal(t, MsgLoadLinksFailed, snap.ErrorMessage)
	require.Equal(t, folio.StatusUnread, api.lastStatus)
}

func TestController_ArchiveRemovesRowFromActive(t *testing.T) {
	api := newFakeAPI()
	api.bookmarks[false] = []folio.Bookmark{{ID: "1", URL: "http://a.com"}}
	c := loaded(t, api, Options{})

	op := c.Archive("1")
	require.True(t, c.Snapshot().Loading)
	run(t, c, op)

	snap := c.Snapshot()
	require.Empty(t, snap.Items)
	require.False(t, snap.Loading)
	require.Empty(t, snap.ErrorMessage)
	require.Equal(t, 1, api.count("archive"))
}

func TestController_ArchiveAlreadyArchivedIsNoop(t *testing.T) {
	api := newFakeAPI()
	api.bookmarks[true] = []folio.Bookmark{{ID: "1", Archived: true}}
	c := loaded(t, api, Options{Filter: ShowArchived})

	require.Nil(t, c.Archive("1"))
	require.Nil(t, c.Archive("missing"))
	require.Zero(t, api.count("archive"))
	require.Len(t, c.Snapshot().Items, 1)
}

func TestController_ArchiveInFlightIsGuarded(t *testing.T) {
	api := newFakeAPI()
	api.bookmarks[false] = []folio.Bookmark{{ID: "1"}, {ID: "2"}}
	c := loaded(t, api, Options{})

	first := c.Archive("1")
	require.NotNil(t, first)
	require.Nil(t, c.Archive("1"))

	other := c.Archive("2")
	require.NotNil(t, other)

	run(t, c, first)
	require.True(t, c.Snapshot().Loading, "archive of 2 still in flight")
	run(t, c, other)
	require.False(t, c.Snapshot().Loading)
	require.Empty(t, c.Snapshot().Items)
}

func TestController_ArchiveFailureKeepsRow(t *testing.T) {
	api := newFakeAPI()
	api.bookmarks[false] = []folio.Bookmark{{ID: "1"}}
	api.archiveErr = serverErr()
	c := loaded(t, api, Options{})

	run(t, c, c.Archive("1"))

	snap := c.Snapshot()
	require.Equal(t, MsgArchiveFailed, snap.ErrorMessage)
	require.Len(t, snap.Items, 1)
	require.False(t, snap.Loading)

	// The guard is released so the user can retry.
	require.NotNil(t, c.Archive("1"))
}

func TestController_ArchiveLandingAfterSwitchToArchived(t *testing.T) {
	api := newFakeAPI()
	api.bookmarks[false] = []folio.Bookmark{{ID: "1"}}
	c := loaded(t, api, Options{})

	archive := c.Archive("1")
	require.NotNil(t, c.SetFilter(ShowArchived))
	run(t, c, archive)

	snap := c.Snapshot()
	require.Len(t, snap.Items, 1)
	require.True(t, snap.Items[0].Archived)
	require.Len(t, snap.Visible(), 1)
}

func TestController_SubmitConflictShowsModalMessage(t *testing.T) {
	api := newFakeAPI()
	api.listErr = serverErr()
	c := loaded(t, api, Options{})
	require.Equal(t, MsgLoadBookmarksFailed, c.Snapshot().ErrorMessage)

	api.createErr = conflictErr()
	c.OpenModal()
	c.SetModalInput("http://dup.com")
	op := c.SubmitBookmark()
	require.True(t, c.Snapshot().Modal.Submitting)
	run(t, c, op)

	snap := c.Snapshot()
	require.True(t, snap.Modal.Open)
	require.False(t, snap.Modal.Submitting)
	require.Equal(t, MsgAlreadyBookmarked, snap.Modal.Error)
	require.Equal(t, "http://dup.com", snap.Modal.Input)
	require.Equal(t, MsgLoadBookmarksFailed, snap.ErrorMessage, "banner is left alone")
	require.Empty(t, snap.Items)
}

func TestController_SubmitSuccessAppendsInActive(t *testing.T) {
	api := newFakeAPI()
	api.bookmarks[false] = []folio.Bookmark{{ID: "1"}}
	c := loaded(t, api, Options{})

	c.OpenModal()
	c.SetModalInput("  https://example.com/post  ")
	run(t, c, c.SubmitBookmark())

	snap := c.Snapshot()
	require.Equal(t, ModalState{}, snap.Modal)
	require.Len(t, snap.Items, 2)
	require.Equal(t, "new", snap.Items[1].ID)
	require.Equal(t, "https://example.com/post", api.lastURL)
}

func TestController_SubmitSuccessDoesNotAppendElsewhere(t *testing.T) {
	for _, f := range []Filter{ShowArchived, ShowImportedFeed} {
		t.Run(f.String(), func(t *testing.T) {
			api := newFakeAPI()
			c := loaded(t, api, Options{Filter: f})

			c.OpenModal()
			c.SetModalInput("http://a.com")
			run(t, c, c.SubmitBookmark())

			snap := c.Snapshot()
			require.False(t, snap.Modal.Open)
			require.Empty(t, snap.Items)
		})
	}
}

func TestController_SubmitFailureSetsBanner(t *testing.T) {
	api := newFakeAPI()
	c := loaded(t, api, Options{})
	api.createErr = serverErr()

	c.OpenModal()
	c.SetModalInput("http://a.com")
	run(t, c, c.SubmitBookmark())

	snap := c.Snapshot()
	require.Equal(t, MsgAddFailed, snap.ErrorMessage)
	require.True(t, snap.Modal.Open)
	require.Empty(t, snap.Modal.Error)
	require.Equal(t, "http://a.com", snap.Modal.Input)
}

func TestController_SubmitValidation(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: MsgURLRequired},
		{input: "   ", want: MsgURLRequired},
		{input: "not a url", want: MsgURLInvalid},
		{input: "ftp://example.com", want: MsgURLInvalid},
		{input: "http://", want: MsgURLInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			api := newFakeAPI()
			c := New(api, Options{})
			c.OpenModal()
			c.SetModalInput(tt.input)

			require.Nil(t, c.SubmitBookmark())
			require.Equal(t, tt.want, c.Snapshot().Modal.Error)
			require.Zero(t, api.count("create"))
		})
	}
}

func TestController_ModalLockedWhileSubmitting(t *testing.T) {
	api := newFakeAPI()
	c := New(api, Options{})
	c.OpenModal()
	c.SetModalInput("http://a.com")

	op := c.SubmitBookmark()
	require.NotNil(t, op)
	require.Nil(t, c.SubmitBookmark(), "double submit")
	require.False(t, c.CloseModal())
	c.SetModalInput("http://b.com")
	require.Equal(t, "http://a.com", c.Snapshot().Modal.Input)

	run(t, c, op)
	require.Equal(t, 1, api.count("create"))
	require.True(t, c.CloseModal())
}

func TestController_SubmitWithoutModalIsNoop(t *testing.T) {
	c := New(newFakeAPI(), Options{})
	require.Nil(t, c.SubmitBookmark())
}

func TestController_StaleListIsDiscarded(t *testing.T) {
	api := newFakeAPI()
	api.bookmarks[false] = []folio.Bookmark{{ID: "a1"}}
	api.bookmarks[true] = []folio.Bookmark{{ID: "z1", Archived: true}}
	c := New(api, Options{})

	toArchived := c.SetFilter(ShowArchived)
	toActive := c.SetFilter(ShowActive)

	archivedRes := toArchived(context.Background())
	activeRes := toActive(context.Background())

	c.Apply(activeRes)
	c.Apply(archivedRes)

	snap := c.Snapshot()
	require.Equal(t, ShowActive, snap.Filter)
	require.Len(t, snap.Items, 1)
	require.Equal(t, "a1", snap.Items[0].ID)
	require.False(t, snap.Loading)
}

func TestController_StaleListDoesNotClearLoading(t *testing.T) {
	api := newFakeAPI()
	c := New(api, Options{})

	first := c.SetFilter(ShowArchived)
	second := c.SetFilter(ShowImportedFeed)

	run(t, c, first)
	require.True(t, c.Snapshot().Loading)
	run(t, c, second)
	require.False(t, c.Snapshot().Loading)
}

func TestController_StaleFailureDoesNotSetBanner(t *testing.T) {
	api := newFakeAPI()
	c := New(api, Options{})

	api.listErr = serverErr()
	first := c.SetFilter(ShowArchived)
	failed := first(context.Background())
	api.listErr = nil
	second := c.SetFilter(ShowActive)

	c.Apply(failed)
	run(t, c, second)
	require.Empty(t, c.Snapshot().ErrorMessage)
}

func TestController_RefreshIsQuiet(t *testing.T) {
	api := newFakeAPI()
	api.bookmarks[false] = []folio.Bookmark{{ID: "1"}}
	c := loaded(t, api, Options{})

	api.bookmarks[false] = append(api.bookmarks[false], folio.Bookmark{ID: "2"})
	op := c.Refresh()
	snap := c.Snapshot()
	require.True(t, snap.Refreshing)
	require.False(t, snap.Loading)
	require.Nil(t, c.Refresh(), "one refresh at a time")

	run(t, c, op)
	snap = c.Snapshot()
	require.False(t, snap.Refreshing)
	require.Len(t, snap.Items, 2)
}

func TestController_RefreshFailurePausesUntilReload(t *testing.T) {
	api := newFakeAPI()
	c := loaded(t, api, Options{})

	api.listErr = serverErr()
	run(t, c, c.Refresh())

	snap := c.Snapshot()
	require.Empty(t, snap.ErrorMessage, "background failures do not raise the banner")
	require.Equal(t, 1, snap.RefreshFailures)
	require.False(t, snap.IsOffline())
	require.Nil(t, c.Refresh())

	run(t, c, c.Reload())
	require.True(t, c.Snapshot().IsOffline())

	api.listErr = nil
	run(t, c, c.Reload())
	require.Zero(t, c.Snapshot().RefreshFailures)
	require.NotNil(t, c.Refresh())
}

func TestController_RefreshSkippedWhileBusy(t *testing.T) {
	api := newFakeAPI()
	api.bookmarks[false] = []folio.Bookmark{{ID: "1"}}
	c := loaded(t, api, Options{})

	archive := c.Archive("1")
	require.Nil(t, c.Refresh())
	run(t, c, archive)

	reload := c.Reload()
	require.Nil(t, c.Refresh())
	run(t, c, reload)
}

func TestController_RefreshOvertakenByArchive(t *testing.T) {
	api := newFakeAPI()
	api.bookmarks[false] = []folio.Bookmark{{ID: "1"}, {ID: "2"}}
	c := loaded(t, api, Options{})

	refresh := c.Refresh()
	snapshotBeforeArchive := refresh(context.Background())

	run(t, c, c.Archive("1"))
	c.Apply(snapshotBeforeArchive)

	snap := c.Snapshot()
	require.False(t, snap.Refreshing)
	require.Len(t, snap.Items, 1)
	require.Equal(t, "2", snap.Items[0].ID)
}

func TestController_StatusFilter(t *testing.T) {
	api := newFakeAPI()
	c := loaded(t, api, Options{})

	require.Nil(t, c.SetStatusFilter("archive"), "no fetch outside the feed")
	require.Equal(t, folio.StatusArchive, c.Snapshot().StatusFilter)
	require.Nil(t, c.SetStatusFilter("bogus"))
	require.Equal(t, folio.StatusArchive, c.Snapshot().StatusFilter)

	run(t, c, c.SetFilter(ShowImportedFeed))
	require.Equal(t, folio.StatusArchive, api.lastStatus)

	run(t, c, c.CycleStatusFilter())
	require.Equal(t, folio.StatusAll, c.Snapshot().StatusFilter)
	require.Equal(t, folio.StatusAll, api.lastStatus)

	run(t, c, c.CycleStatusFilter())
	require.Equal(t, folio.StatusUnread, api.lastStatus)
}

func TestController_FeedLinksLoaded(t *testing.T) {
	api := newFakeAPI()
	api.links = []folio.ImportedLink{{ID: "p1", Tags: []string{"go"}}}
	c := New(api, Options{Filter: ShowImportedFeed, StatusFilter: "all"})
	run(t, c, c.Load())

	snap := c.Snapshot()
	require.Equal(t, folio.StatusAll, api.lastStatus)
	require.Len(t, snap.Links, 1)
	require.Equal(t, 1, snap.Count())
	require.Nil(t, snap.Visible())
}

func TestController_Toggles(t *testing.T) {
	api := newFakeAPI()
	c := New(api, Options{})

	run(t, c, c.ToggleArchived())
	require.Equal(t, ShowArchived, c.Snapshot().Filter)

	run(t, c, c.ToggleImportedFeed())
	require.Equal(t, ShowImportedFeed, c.Snapshot().Filter)

	run(t, c, c.ToggleImportedFeed())
	require.Equal(t, ShowArchived, c.Snapshot().Filter, "feed returns to the last bookmark view")

	run(t, c, c.ToggleImportedFeed())
	run(t, c, c.ToggleArchived())
	require.Equal(t, ShowActive, c.Snapshot().Filter)
}

func TestController_SnapshotIsACopy(t *testing.T) {
	api := newFakeAPI()
	api.bookmarks[false] = []folio.Bookmark{{ID: "1", Title: "one"}}
	c := loaded(t, api, Options{})

	snap := c.Snapshot()
	snap.Items[0].Title = "changed"
	require.Equal(t, "one", c.Snapshot().Items[0].Title)
}

func TestController_UnexpectedPartitionIsDropped(t *testing.T) {
	api := newFakeAPI()
	api.bookmarks[false] = []folio.Bookmark{{ID: "1"}, {ID: "2", Archived: true}}
	c := loaded(t, api, Options{})

	snap := c.Snapshot()
	require.Len(t, snap.Items, 1)
	require.Equal(t, "1", snap.Items[0].ID)
}

func TestParseFilter(t *testing.T) {
	for _, f := range []Filter{ShowActive, ShowArchived, ShowImportedFeed} {
		require.Equal(t, f, ParseFilter(f.String()))
	}
	require.Equal(t, ShowActive, ParseFilter("nonsense"))
}
