package state

import (
	"context"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/folio/internal/folio"
	"github.com/five82/folio/internal/logging"
)

// API is the subset of the service client the controller drives.
type API interface {
	ListBookmarks(ctx context.Context, archived bool) ([]folio.Bookmark, error)
	CreateBookmark(ctx context.Context, rawURL string) (folio.Bookmark, error)
	ArchiveBookmark(ctx context.Context, id string) (folio.Bookmark, error)
	ListImportedLinks(ctx context.Context, status string) ([]folio.ImportedLink, error)
}

// Op is a pending network call. Running it must not touch controller state;
// its Result goes back through Apply.
type Op func(ctx context.Context) Result

// Result is the outcome of an Op.
type Result interface {
	result()
}

type listResult struct {
	seq        uint64
	epoch      uint64
	background bool
	filter     Filter
	items      []folio.Bookmark
	links      []folio.ImportedLink
	err        error
}

type createResult struct {
	url      string
	bookmark folio.Bookmark
	err      error
}

type archiveResult struct {
	id       string
	bookmark folio.Bookmark
	err      error
}

func (listResult) result()    {}
func (createResult) result()  {}
func (archiveResult) result() {}

// Options configure a Controller.
type Options struct {
	Logger       *log.Logger
	Filter       Filter
	StatusFilter string
}

// Controller owns the ViewState. Transitions return the Op to run, or nil
// when nothing needs the network.
type Controller struct {
	api    API
	logger *log.Logger

	mu    sync.RWMutex
	state ViewState

	// bookmarkFilter is the bookmark partition to return to from the feed.
	bookmarkFilter Filter
	// seq identifies the newest list request; older results are dropped.
	seq uint64
	// epoch advances whenever a create or archive lands, so background
	// snapshots taken before it cannot overwrite it.
	epoch       uint64
	pendingList bool
	archiving   map[string]bool
}

// New creates a Controller. Call Load to fetch the initial view.
func New(api API, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	status := strings.TrimSpace(opts.StatusFilter)
	if !validStatus(status) {
		status = folio.StatusUnread
	}
	bookmarkFilter := ShowActive
	if opts.Filter == ShowArchived {
		bookmarkFilter = ShowArchived
	}
	return &Controller{
		api:            api,
		logger:         logger,
		state:          ViewState{Filter: opts.Filter, StatusFilter: status},
		bookmarkFilter: bookmarkFilter,
		archiving:      make(map[string]bool),
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() ViewState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Load fetches the current filter.
func (c *Controller) Load() Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issueList(false)
}

// Reload is Load under the name the UI binds to a key.
func (c *Controller) Reload() Op {
	return c.Load()
}

// SetFilter switches the view and fetches it.
func (c *Controller) SetFilter(f Filter) Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setFilterLocked(f)
}

// ToggleArchived flips between the active and archived bookmarks. From the
// feed it flips the bookmark view the feed would return to.
func (c *Controller) ToggleArchived() Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := ShowArchived
	if c.bookmarkFilter == ShowArchived {
		next = ShowActive
	}
	return c.setFilterLocked(next)
}

// ToggleImportedFeed enters the Pocket feed, or leaves it for the last
// bookmark view.
func (c *Controller) ToggleImportedFeed() Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Filter == ShowImportedFeed {
		return c.setFilterLocked(c.bookmarkFilter)
	}
	return c.setFilterLocked(ShowImportedFeed)
}

// SetStatusFilter changes the feed's status filter. The feed is refetched
// only when it is on screen.
func (c *Controller) SetStatusFilter(status string) Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	status = strings.ToLower(strings.TrimSpace(status))
	if !validStatus(status) {
		return nil
	}
	c.state.StatusFilter = status
	if c.state.Filter != ShowImportedFeed {
		return nil
	}
	return c.issueList(false)
}

// CycleStatusFilter advances unread -> archive -> all -> unread.
func (c *Controller) CycleStatusFilter() Op {
	c.mu.RLock()
	current := c.state.StatusFilter
	c.mu.RUnlock()

	filters := folio.StatusFilters()
	next := filters[0]
	if i := slices.Index(filters, current); i >= 0 {
		next = filters[(i+1)%len(filters)]
	}
	return c.SetStatusFilter(next)
}

// Refresh re-fetches the current view quietly. It does nothing while any
// other request is in flight, and after a failed fetch until the user
// reloads.
func (c *Controller) Refresh() Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Refreshing || c.pendingList || len(c.archiving) > 0 || c.state.Modal.Submitting {
		return nil
	}
	if c.state.RefreshFailures > 0 {
		return nil
	}
	return c.issueList(true)
}

// OpenModal shows an empty add-bookmark dialog.
func (c *Controller) OpenModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Modal.Open {
		return
	}
	c.state.Modal = ModalState{Open: true}
}

// CloseModal dismisses the dialog. It refuses while a submission is in
// flight and reports whether the dialog closed.
func (c *Controller) CloseModal() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Modal.Submitting {
		return false
	}
	c.state.Modal = ModalState{}
	return true
}

// SetModalInput echoes the URL being typed.
func (c *Controller) SetModalInput(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Modal.Open || c.state.Modal.Submitting {
		return
	}
	c.state.Modal.Input = value
}

// SubmitBookmark validates the dialog input and creates the bookmark.
func (c *Controller) SubmitBookmark() Op {
	c.mu.Lock()
	defer c.mu.Unlock()

	modal := &c.state.Modal
	if !modal.Open || modal.Submitting {
		return nil
	}
	raw := strings.TrimSpace(modal.Input)
	if raw == "" {
		modal.Error = MsgURLRequired
		return nil
	}
	if !validURL(raw) {
		modal.Error = MsgURLInvalid
		return nil
	}
	modal.Submitting = true
	modal.Error = ""
	c.logger.Debug("creating bookmark", "url", raw)

	api := c.api
	return func(ctx context.Context) Result {
		b, err := api.CreateBookmark(ctx, raw)
		return createResult{url: raw, bookmark: b, err: err}
	}
}

// Archive archives the bookmark with id. Unknown ids, bookmarks that are
// already archived and ids with an archive in flight are ignored.
func (c *Controller) Archive(id string) Op {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		c.logger.Debug("archive ignored", "id", id, "reason", "unknown")
		return nil
	}
	if c.state.Items[idx].Archived {
		c.logger.Debug("archive ignored", "id", id, "reason", "already archived")
		return nil
	}
	if c.archiving[id] {
		c.logger.Debug("archive ignored", "id", id, "reason", "in flight")
		return nil
	}
	c.archiving[id] = true
	c.state.ErrorMessage = ""
	c.updateLoading()
	c.logger.Debug("archiving bookmark", "id", id)

	api := c.api
	return func(ctx context.Context) Result {
		b, err := api.ArchiveBookmark(ctx, id)
		return archiveResult{id: id, bookmark: b, err: err}
	}
}

// Apply folds the outcome of an Op into the state.
func (c *Controller) Apply(res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch r := res.(type) {
	case listResult:
		c.applyList(r)
	case createResult:
		c.applyCreate(r)
	case archiveResult:
		c.applyArchive(r)
	}
}

func (c *Controller) setFilterLocked(f Filter) Op {
	if f.IsBookmarks() {
		c.bookmarkFilter = f
	}
	c.state.Filter = f
	return c.issueList(false)
}

// issueList must be called with mu held.
func (c *Controller) issueList(background bool) Op {
	c.seq++
	seq := c.seq
	epoch := c.epoch
	filter := c.state.Filter
	status := c.state.StatusFilter

	if background {
		c.state.Refreshing = true
	} else {
		c.pendingList = true
		c.state.ErrorMessage = ""
		c.updateLoading()
	}
	c.logger.Debug("fetching", "filter", filter, "seq", seq, "background", background)

	api := c.api
	return func(ctx context.Context) Result {
		res := listResult{seq: seq, epoch: epoch, background: background, filter: filter}
		if filter == ShowImportedFeed {
			res.links, res.err = api.ListImportedLinks(ctx, status)
		} else {
			res.items, res.err = api.ListBookmarks(ctx, filter == ShowArchived)
		}
		return res
	}
}

func (c *Controller) applyList(r listResult) {
	if r.background {
		c.state.Refreshing = false
	}
	if r.seq != c.seq {
		c.logger.Debug("discarding stale list", "filter", r.filter, "seq", r.seq, "latest", c.seq)
		return
	}
	if !r.background {
		c.pendingList = false
		c.updateLoading()
	}
	if r.background && r.epoch != c.epoch {
		c.logger.Debug("discarding refresh overtaken by a change", "filter", r.filter)
		return
	}

	if r.err != nil {
		c.state.RefreshFailures++
		if r.background {
			c.logger.Warn("background refresh failed", "filter", r.filter, "status", folio.StatusCode(r.err), "err", r.err)
			return
		}
		c.logger.Error("list failed", "filter", r.filter, "status", folio.StatusCode(r.err), "err", r.err)
		if r.filter == ShowImportedFeed {
			c.state.ErrorMessage = MsgLoadLinksFailed
		} else {
			c.state.ErrorMessage = MsgLoadBookmarksFailed
		}
		return
	}

	c.state.RefreshFailures = 0
	c.state.LastUpdated = time.Now()
	if r.filter == ShowImportedFeed {
		c.state.Links = r.links
		c.logger.Debug("feed loaded", "status", c.state.StatusFilter, "count", len(r.links))
		return
	}
	wantArchived := r.filter == ShowArchived
	items := make([]folio.Bookmark, 0, len(r.items))
	for _, b := range r.items {
		if b.Archived == wantArchived {
			items = append(items, b)
		}
	}
	if dropped := len(r.items) - len(items); dropped > 0 {
		c.logger.Warn("service returned bookmarks for the wrong view", "filter", r.filter, "dropped", dropped)
	}
	c.state.Items = items
	c.logger.Debug("bookmarks loaded", "filter", r.filter, "count", len(items))
}

func (c *Controller) applyCreate(r createResult) {
	c.state.Modal.Submitting = false

	switch {
	case r.err == nil:
		c.epoch++
		if c.state.Filter == ShowActive && c.indexOf(r.bookmark.ID) < 0 {
			c.state.Items = append(c.state.Items, r.bookmark)
		}
		c.state.Modal = ModalState{}
		c.logger.Info("bookmark created", "id", r.bookmark.ID, "url", r.url)
	case folio.IsConflict(r.err):
		c.state.Modal.Error = MsgAlreadyBookmarked
		c.logger.Info("bookmark already exists", "url", r.url, "err", r.err)
	default:
		c.state.ErrorMessage = MsgAddFailed
		c.logger.Error("create failed", "url", r.url, "status", folio.StatusCode(r.err), "err", r.err)
	}
}

func (c *Controller) applyArchive(r archiveResult) {
	delete(c.archiving, r.id)
	defer c.updateLoading()

	if r.err != nil {
		c.state.ErrorMessage = MsgArchiveFailed
		c.logger.Error("archive failed", "id", r.id, "status", folio.StatusCode(r.err), "err", r.err)
		return
	}

	c.epoch++
	idx := c.indexOf(r.id)
	switch c.state.Filter {
	case ShowActive:
		if idx >= 0 {
			c.state.Items = slices.Delete(c.state.Items, idx, idx+1)
		}
	case ShowArchived:
		if idx >= 0 {
			c.state.Items[idx].Archived = true
		}
	}
	c.logger.Info("bookmark archived", "id", r.id, "filter", c.state.Filter)
}

func (c *Controller) updateLoading() {
	c.state.Loading = c.pendingList || len(c.archiving) > 0
}

func (c *Controller) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(c.state.Items, func(b folio.Bookmark) bool {
		return b.ID == id
	})
}

func validStatus(status string) bool {
	return slices.Contains(folio.StatusFilters(), status)
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
