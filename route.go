package gemini

import (
	"context"
	"encoding/json"
	"fmt"
)

// Request describes one API operation: its HTTP method, its path relative to the
// API version and an optional JSON body. Body returns nil when there is none.
type Request interface {
	Method() string
	FormatURI(b *URIBuilder)
	Body() any
}

// Route binds a Request to a Client. M is the model the success reply decodes into.
type Route[R Request, M any] struct {
	client *Client
	req    R
}

func newRoute[R Request, M any](c *Client, req R) *Route[R, M] {
	return &Route[R, M]{client: c, req: req}
}

// Request exposes the request so it can be adjusted before Do.
func (r *Route[R, M]) Request() R {
	return r.req
}

// URI is the absolute request URI including the API key.
func (r *Route[R, M]) URI() string {
	return r.uri(r.client.apiKey)
}

// String is URI with the API key masked.
func (r *Route[R, M]) String() string {
	return r.uri(redactedKey)
}

func (r *Route[R, M]) uri(key string) string {
	var b URIBuilder
	b.WritePath(r.client.baseURL, "/", r.client.apiVersion, "/")
	r.req.FormatURI(&b)
	b.WriteQueryParam("key", key)
	return b.String()
}

// Do performs the call.
func (r *Route[R, M]) Do(ctx context.Context) (*M, error) {
	out := new(M)
	if err := r.client.doJSON(ctx, r.req.Method(), r.URI(), r.String(), r.req.Body(), out); err != nil {
		return nil, err
	}
	return out, nil
}

type envelope struct {
	Error *APIError `json:"error"`
}

// decodeEnvelope maps a reply body onto either out or an *APIError.
func decodeEnvelope(statusCode int, data []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Error != nil {
		if env.Error.Code == 0 {
			env.Error.Code = statusCode
		}
		return env.Error
	}
	if statusCode < 200 || statusCode >= 300 {
		return &HTTPError{StatusCode: statusCode, Body: truncate(string(data), 512)}
	}
	if len(data) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("gemini: decode response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
