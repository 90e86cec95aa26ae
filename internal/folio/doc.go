// Package folio provides an HTTP client for the bookmark service API.
//
// # Overview
//
// The service stores bookmarks, enriches them with a title and description
// after they are created, and keeps a read-only feed of links imported from
// Pocket. This package converts the service's JSON into Bookmark and
// ImportedLink values and reports failures as typed errors.
//
// # Endpoints
//
//   - GET /bookmarks/?archived=true|false
//   - POST /bookmarks/ with {"url": ...}
//   - PATCH /bookmarks/{id}/archive
//   - GET /pocket-links/?status_filter=unread|archive|all
//
// # Requests
//
// Every request carries Accept and Content-Type application/json, a
// User-Agent, an X-Request-ID and, when configured, a bearer token. Cookies
// set by the service are kept in a per-client jar and replayed.
//
// # Errors
//
// Status codes of 400 and above produce *APIError with the status and the
// service's detail text. Use IsConflict to recognise a duplicate URL.
// Network failures and undecodable bodies wrap ErrTransport.
//
//	b, err := client.CreateBookmark(ctx, "https://go.dev")
//	switch {
//	case folio.IsConflict(err):
//		// already saved
//	case err != nil:
//		return err
//	}
//
// The client does no caching and no retries.
package folio
