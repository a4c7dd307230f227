package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

func TextPart(text string) Part {
	return Part{Text: text}
}

// InlineDataPart embeds data in the request. An empty mimeType is sniffed from data.
func InlineDataPart(mimeType string, data []byte) Part {
	if mimeType == "" {
		mimeType = mimetype.Detect(data).String()
	}
	return Part{InlineData: &Blob{MimeType: mimeType, Data: data}}
}

// FileDataPart references an uploaded file.
func FileDataPart(f File) Part {
	return Part{FileData: &FileData{MimeType: f.MimeType, FileURI: f.URI}}
}

func FilePart(uri, mimeType string) Part {
	return Part{FileData: &FileData{MimeType: mimeType, FileURI: uri}}
}

// PartFromReader reads r fully into an inline part.
func PartFromReader(r io.Reader, mimeType string) (Part, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Part{}, err
	}
	return InlineDataPart(mimeType, data), nil
}

// PartFromURL loads a data: URI or an http(s) link into an inline part.
// Links are fetched with http.DefaultClient, which has no timeout, so ctx
// should carry a deadline. Client.PartFromURL uses the client's transport.
func PartFromURL(ctx context.Context, link string) (Part, error) {
	return partFromURL(ctx, http.DefaultClient, link)
}

// PartFromURL is the package level PartFromURL fetching through the client's
// HTTP client and its timeout.
func (c *Client) PartFromURL(ctx context.Context, link string) (Part, error) {
	return partFromURL(ctx, c.httpClient, link)
}

func partFromURL(ctx context.Context, hc *http.Client, link string) (Part, error) {
	if strings.HasPrefix(link, "data:") {
		header, payload, ok := strings.Cut(link, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return Part{}, errors.New("gemini: only base64 data URIs are supported")
		}
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
		if err != nil {
			return Part{}, err
		}
		mimeType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		return InlineDataPart(mimeType, data), nil
	}
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return Part{}, fmt.Errorf("gemini: invalid link %q", link)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return Part{}, err
	}
	resp, err := hc.Do(req)
	if err != nil {
		return Part{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Part{}, fmt.Errorf("gemini: fetch %s: %s", link, resp.Status)
	}
	// sniffing beats a generic application/octet-stream header
	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "application/octet-stream" {
		mimeType = ""
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return PartFromReader(io.LimitReader(resp.Body, maxBodySize), mimeType)
}
