package state

import (
	"time"

	"github.com/five82/folio/internal/folio"
)

// Filter selects which partition of data the screen shows.
type Filter int

const (
	ShowActive Filter = iota
	ShowArchived
	ShowImportedFeed
)

func (f Filter) String() string {
	switch f {
	case ShowArchived:
		return "archived"
	case ShowImportedFeed:
		return "pocket"
	default:
		return "active"
	}
}

// Label is the heading shown above the table for the filter.
func (f Filter) Label() string {
	switch f {
	case ShowArchived:
		return "Archived Bookmarks"
	case ShowImportedFeed:
		return "Pocket Links"
	default:
		return "Active Bookmarks"
	}
}

// IsBookmarks reports whether the filter shows bookmarks rather than the feed.
func (f Filter) IsBookmarks() bool {
	return f == ShowActive || f == ShowArchived
}

// ParseFilter maps a stored view name back to a Filter.
func ParseFilter(name string) Filter {
	switch name {
	case "archived":
		return ShowArchived
	case "pocket":
		return ShowImportedFeed
	default:
		return ShowActive
	}
}

// User-facing messages.
const (
	MsgLoadBookmarksFailed = "Failed to load bookmarks. Please try again later."
	MsgLoadLinksFailed     = "Failed to load Pocket links. Please try again later."
	MsgAddFailed           = "Failed to add bookmark. Please try again."
	MsgArchiveFailed       = "Failed to archive bookmark. Please try again."
	MsgAlreadyBookmarked   = "This URL is already bookmarked."
	MsgURLRequired         = "Please enter a URL."
	MsgURLInvalid          = "Please enter a valid URL."
)

// ModalState is the add-bookmark dialog.
type ModalState struct {
	Open       bool
	Input      string
	Submitting bool
	Error      string
}

// ViewState is everything the screen renders.
type ViewState struct {
	Filter       Filter
	StatusFilter string
	Items        []folio.Bookmark
	Links        []folio.ImportedLink

	Loading      bool
	ErrorMessage string
	Modal        ModalState

	Refreshing      bool
	RefreshFailures int
	LastUpdated     time.Time
}

// IsOffline returns true when the service has been unreachable for multiple fetches.
func (v ViewState) IsOffline() bool {
	return v.RefreshFailures >= 2
}

// Visible returns the bookmarks that belong to the current bookmark filter.
// While a filter change is loading, Items may still hold the previous
// partition; those rows are not shown under the new heading.
func (v ViewState) Visible() []folio.Bookmark {
	if !v.Filter.IsBookmarks() {
		return nil
	}
	wantArchived := v.Filter == ShowArchived
	out := make([]folio.Bookmark, 0, len(v.Items))
	for _, b := range v.Items {
		if b.Archived == wantArchived {
			out = append(out, b)
		}
	}
	return out
}

// Count is the number of rows in the current view.
func (v ViewState) Count() int {
	if v.Filter == ShowImportedFeed {
		return len(v.Links)
	}
	return len(v.Visible())
}

func (v ViewState) clone() ViewState {
	dup := v
	dup.Items = cloneBookmarks(v.Items)
	dup.Links = cloneLinks(v.Links)
	return dup
}

func cloneBookmarks(items []folio.Bookmark) []folio.Bookmark {
	if len(items) == 0 {
		return nil
	}
	dup := make([]folio.Bookmark, len(items))
	copy(dup, items)
	return dup
}

func cloneLinks(links []folio.ImportedLink) []folio.ImportedLink {
	if len(links) == 0 {
		return nil
	}
	dup := make([]folio.ImportedLink, len(links))
	for i, l := range links {
		dup[i] = l
		if l.Tags != nil {
			dup[i].Tags = append([]string(nil), l.Tags...)
		}
	}
	return dup
}
