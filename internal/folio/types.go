package folio

import (
	"strconv"
	"strings"
	"time"
)

// Layouts the service uses for created_at. Python's isoformat omits the zone
// for naive datetimes, so those are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Bookmark is a saved URL as shown by the client.
type Bookmark struct {
	ID          string
	URL         string
	Title       string
	Description string
	Archived    bool
	CreatedAt   time.Time
}

// ImportedLink is a read-only entry from the Pocket import feed.
type ImportedLink struct {
	ID        string
	Title     string
	URL       string
	AddedAt   time.Time
	Tags      []string
	Status    string
	CreatedAt time.Time
}

// Pocket feed status filters accepted by /pocket-links/.
const (
	StatusUnread  = "unread"
	StatusArchive = "archive"
	StatusAll     = "all"
)

// StatusFilters lists the feed filters in display order.
func StatusFilters() []string {
	return []string{StatusUnread, StatusArchive, StatusAll}
}

// bookmarkRecord mirrors a bookmark object on the wire.
type bookmarkRecord struct {
	ID          int64   `json:"id"`
	URL         string  `json:"url"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Archived    bool    `json:"archived"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   *string `json:"updated_at"`
}

func (r bookmarkRecord) toBookmark() Bookmark {
	title := derefTrim(r.Title)
	if title == "" {
		title = r.URL
	}
	return Bookmark{
		ID:          strconv.FormatInt(r.ID, 10),
		URL:         r.URL,
		Title:       title,
		Description: deref(r.Description),
		Archived:    r.Archived,
		CreatedAt:   parseTime(r.CreatedAt),
	}
}

// importedLinkRecord mirrors a pocket link object on the wire.
type importedLinkRecord struct {
	ID        int64   `json:"id"`
	Title     *string `json:"title"`
	URL       string  `json:"url"`
	TimeAdded int64   `json:"time_added"`
	Tags      *string `json:"tags"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

func (r importedLinkRecord) toImportedLink() ImportedLink {
	title := derefTrim(r.Title)
	if title == "" {
		title = r.URL
	}
	var added time.Time
	if r.TimeAdded > 0 {
		added = time.Unix(r.TimeAdded, 0)
	}
	return ImportedLink{
		ID:        strconv.FormatInt(r.ID, 10),
		Title:     title,
		URL:       r.URL,
		AddedAt:   added,
		Tags:      ParseTags(deref(r.Tags)),
		Status:    r.Status,
		CreatedAt: parseTime(r.CreatedAt),
	}
}

// ParseTags splits a comma-separated tag string, dropping blank entries.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTrim(s *string) string {
	return strings.TrimSpace(deref(s))
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
