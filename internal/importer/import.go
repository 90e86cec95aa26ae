package importer

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/five82/folio/internal/folio"
)

// Creator is the part of the API client the importer needs.
type Creator interface {
	CreateBookmark(ctx context.Context, rawURL string) (folio.Bookmark, error)
}

// Failure records a link the service refused.
type Failure struct {
	URL string
	Err error
}

// Summary counts the outcome of an import.
type Summary struct {
	Added      int
	Duplicates int
	Failed     int
	Failures   []Failure
}

// Total is the number of links attempted.
func (s Summary) Total() int {
	return s.Added + s.Duplicates + s.Failed
}

func (s Summary) String() string {
	return fmt.Sprintf("%d added, %d already bookmarked, %d failed", s.Added, s.Duplicates, s.Failed)
}

// Import creates each link in order. A 409 counts as a duplicate; every other
// error is counted and the import moves on. Import stops early only when ctx
// is cancelled, returning the partial summary with ctx.Err().
func Import(ctx context.Context, api Creator, links []Link, logger *log.Logger) (Summary, error) {
	if api == nil {
		return Summary{}, fmt.Errorf("importer: nil client")
	}
	var sum Summary
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		b, err := api.CreateBookmark(ctx, link.URL)
		switch {
		case err == nil:
			sum.Added++
			if logger != nil {
				logger.Debug("imported", "url", link.URL, "id", b.ID, "folder", link.Folder)
			}
		case folio.IsConflict(err):
			sum.Duplicates++
			if logger != nil {
				logger.Debug("already bookmarked", "url", link.URL)
			}
		default:
			sum.Failed++
			sum.Failures = append(sum.Failures, Failure{URL: link.URL, Err: err})
			if logger != nil {
				logger.Warn("import failed", "url", link.URL, "status", folio.StatusCode(err), "err", err)
			}
		}
	}
	return sum, nil
}
