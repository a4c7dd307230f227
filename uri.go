package gemini

import (
	"net/url"
	"strings"
)

const redactedKey = "REDACTED"

// URIBuilder accumulates the path and query of a request URI.
// The first query parameter is introduced by '?', the following ones by '&'.
type URIBuilder struct {
	path  strings.Builder
	query strings.Builder
}

// WritePath appends s to the path verbatim.
func (b *URIBuilder) WritePath(s ...string) {
	for _, v := range s {
		b.path.WriteString(v)
	}
}

// WriteQueryParam appends key=value, escaping the value.
func (b *URIBuilder) WriteQueryParam(key, value string) {
	if b.query.Len() == 0 {
		b.query.WriteByte('?')
	} else {
		b.query.WriteByte('&')
	}
	b.query.WriteString(key)
	b.query.WriteByte('=')
	b.query.WriteString(url.QueryEscape(value))
}

// WriteOptionalQueryParam is WriteQueryParam for values that may be unset.
func (b *URIBuilder) WriteOptionalQueryParam(key, value string) {
	if value == "" {
		return
	}
	b.WriteQueryParam(key, value)
}

func (b *URIBuilder) String() string {
	return b.path.String() + b.query.String()
}

// stripQuery drops the query of a server supplied URL so it can be logged.
func stripQuery(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}
