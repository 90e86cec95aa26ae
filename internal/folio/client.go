package folio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// API is the set of operations the client exposes to the rest of the program.
type API interface {
	ListBookmarks(ctx context.Context, archived bool) ([]Bookmark, error)
	CreateBookmark(ctx context.Context, rawURL string) (Bookmark, error)
	ArchiveBookmark(ctx context.Context, id string) (Bookmark, error)
	ListImportedLinks(ctx context.Context, status string) ([]ImportedLink, error)
}

var _ API = (*Client)(nil)

// Client talks to the bookmark service over HTTP.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     string
}

// DefaultBaseURL is used when no endpoint is configured.
const DefaultBaseURL = "http://localhost:8000"

const (
	defaultUserAgent = "folio/0.1"
	requestTimeout   = 10 * time.Second
	maxErrorBody     = 64 << 10
)

// Option customises a Client.
type Option func(*Client)

// WithToken sends the token as a bearer Authorization header.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client. A cookie jar is added
// when the supplied client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the service at baseURL. Any path prefix on
// baseURL is kept so the service can live behind a reverse proxy.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		// cookiejar.New only fails on a broken PublicSuffixList.
		jar, _ := cookiejar.New(nil)
		c.http.Jar = jar
	}
	return c, nil
}

// BaseURL returns the endpoint the client was built for.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// ListBookmarks fetches active bookmarks, or archived ones when archived is set.
func (c *Client) ListBookmarks(ctx context.Context, archived bool) ([]Bookmark, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("archived", strconv.FormatBool(archived))
	rel := &url.URL{Path: "/bookmarks/", RawQuery: values.Encode()}

	var records []bookmarkRecord
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &records); err != nil {
		return nil, err
	}
	bookmarks := make([]Bookmark, 0, len(records))
	for _, rec := range records {
		bookmarks = append(bookmarks, rec.toBookmark())
	}
	return bookmarks, nil
}

// CreateBookmark saves rawURL. A URL the service already knows yields an
// *APIError for which IsConflict is true.
func (c *Client) CreateBookmark(ctx context.Context, rawURL string) (Bookmark, error) {
	if c == nil {
		return Bookmark{}, fmt.Errorf("client is nil")
	}
	payload := struct {
		URL string `json:"url"`
	}{URL: strings.TrimSpace(rawURL)}

	var rec bookmarkRecord
	if err := c.do(ctx, http.MethodPost, "/bookmarks/", payload, &rec); err != nil {
		return Bookmark{}, err
	}
	return rec.toBookmark(), nil
}

// ArchiveBookmark marks the bookmark archived and returns the updated record.
func (c *Client) ArchiveBookmark(ctx context.Context, id string) (Bookmark, error) {
	if c == nil {
		return Bookmark{}, fmt.Errorf("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Bookmark{}, fmt.Errorf("bookmark id required")
	}
	var rec bookmarkRecord
	path := "/bookmarks/" + url.PathEscape(id) + "/archive"
	if err := c.do(ctx, http.MethodPatch, path, nil, &rec); err != nil {
		return Bookmark{}, err
	}
	return rec.toBookmark(), nil
}

// ListImportedLinks fetches the Pocket feed. An empty status lets the
// service apply its own default.
func (c *Client) ListImportedLinks(ctx context.Context, status string) ([]ImportedLink, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if status = strings.TrimSpace(status); status != "" {
		values.Set("status_filter", status)
	}
	rel := &url.URL{Path: "/pocket-links/", RawQuery: values.Encode()}

	var records []importedLinkRecord
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &records); err != nil {
		return nil, err
	}
	links := make([]ImportedLink, 0, len(records))
	for _, rec := range records {
		links = append(links, rec.toImportedLink())
	}
	return links, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.resolve(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: execute request: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(method, rel.Path, resp.StatusCode, raw)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrTransport, err)
	}
	return nil
}

func (c *Client) resolve(rel *url.URL) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(c.baseURL.Path, "/") + rel.Path
	u.RawPath = ""
	if strings.Contains(rel.Path, "%") {
		u.RawPath = strings.TrimSuffix(c.baseURL.EscapedPath(), "/") + rel.Path
		if unescaped, err := url.PathUnescape(rel.Path); err == nil {
			u.Path = strings.TrimSuffix(c.baseURL.Path, "/") + unescaped
		}
	}
	u.RawQuery = rel.RawQuery
	return &u
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse api_url %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
