package gemini

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey    = errors.New("gemini: API key must be set either via WithAPIKey or the GEMINI_API_KEY environment variable")
	ErrEmptyResponse    = errors.New("gemini: response has no candidates")
	ErrUploadURLMissing = errors.New("gemini: upload session did not return an upload URL")
	ErrMaxRetries       = errors.New("gemini: hit max retry attempts")
	ErrInvalidEnum      = errors.New("gemini: unknown enum value")
	ErrSchemaRef        = errors.New("gemini: unresolved schema reference")
	ErrSchemaDepth      = errors.New("gemini: schema nesting too deep")
)

// Status is the canonical google.rpc status name carried by API errors.
type Status string

const (
	StatusInvalidArgument    Status = "INVALID_ARGUMENT"
	StatusFailedPrecondition Status = "FAILED_PRECONDITION"
	StatusPermissionDenied   Status = "PERMISSION_DENIED"
	StatusUnauthenticated    Status = "UNAUTHENTICATED"
	StatusNotFound           Status = "NOT_FOUND"
	StatusResourceExhausted  Status = "RESOURCE_EXHAUSTED"
	StatusInternal           Status = "INTERNAL"
	StatusUnavailable        Status = "UNAVAILABLE"
	StatusDeadlineExceeded   Status = "DEADLINE_EXCEEDED"
)

// ErrorInfo is one entry of the error details list.
type ErrorInfo struct {
	Type     string            `json:"@type"`
	Reason   string            `json:"reason,omitempty"`
	Domain   string            `json:"domain,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// APIError is the error object the API returns under the top level "error" key.
type APIError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Status  Status      `json:"status"`
	Details []ErrorInfo `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini: %d %s: %s", e.Code, e.Status, e.Message)
}

// Temporary reports whether the same call may succeed later.
func (e *APIError) Temporary() bool {
	switch e.Status {
	case StatusResourceExhausted, StatusUnavailable, StatusDeadlineExceeded:
		return true
	}
	return false
}

// HTTPError is returned for a non-2xx reply that carries no API error object.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("gemini: unexpected HTTP status %d: %s", e.StatusCode, e.Body)
}

var (
	_ error = (*APIError)(nil)
	_ error = (*HTTPError)(nil)
)
