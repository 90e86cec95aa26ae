package folio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrTransport marks failures where no usable HTTP response arrived:
// connection errors, timeouts and bodies that could not be decoded.
var ErrTransport = errors.New("transport failure")

// APIError is returned for any response with status >= 400.
type APIError struct {
	Status  int
	Message string
	// Detail is the service's "detail" field when the body carried one.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return e.Message
	}
	return e.Message + ": " + e.Detail
}

// IsConflict reports whether err is a 409 from the service.
func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsTransport reports whether err wraps ErrTransport.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	return &APIError{
		Status:  status,
		Message: fmt.Sprintf("api %s %s returned status %d", method, path, status),
		Detail:  parseDetail(body),
	}
}

// parseDetail extracts {"detail": ...}. Validation errors carry a list rather
// than a string; those are kept as compact JSON.
func parseDetail(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, payload.Detail); err != nil {
		return ""
	}
	if compact.String() == "null" {
		return ""
	}
	return compact.String()
}
