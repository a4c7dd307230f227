package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestInlineDataPart_Sniff(t *testing.T) {
	t.Parallel()
	p := InlineDataPart("", pngHeader)
	require.NotNil(t, p.InlineData)
	assert.Equal(t, "image/png", p.InlineData.MimeType)

	p = InlineDataPart("image/jpeg", pngHeader)
	assert.Equal(t, "image/jpeg", p.InlineData.MimeType)
}

func TestPartFromReader(t *testing.T) {
	t.Parallel()
	p, err := PartFromReader(bytes.NewReader([]byte("plain words")), "")
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", p.InlineData.MimeType)
}

func TestFileDataPart(t *testing.T) {
	t.Parallel()
	p := FileDataPart(File{MimeType: "video/mp4", URI: "https://example.com/files/abc"})
	assert.Equal(t, &FileData{MimeType: "video/mp4", FileURI: "https://example.com/files/abc"}, p.FileData)
}

func TestPartFromURL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("data uri", func(t *testing.T) {
		t.Parallel()
		p, err := PartFromURL(ctx, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(pngHeader))
		require.NoError(t, err)
		assert.Equal(t, "image/png", p.InlineData.MimeType)
		assert.Equal(t, pngHeader, p.InlineData.Data)
	})

	t.Run("http", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write(pngHeader)
		}))
		defer srv.Close()
		defer http.DefaultClient.CloseIdleConnections()
		p, err := PartFromURL(ctx, srv.URL+"/a.png")
		require.NoError(t, err)
		assert.Equal(t, "image/png", p.InlineData.MimeType)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()
		_, err := PartFromURL(ctx, "ftp://example.com/a.png")
		assert.Error(t, err)
		_, err = PartFromURL(ctx, "data:text/plain,hello")
		assert.Error(t, err)
	})
}

func TestClient_PartFromURL(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/a.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png; charset=binary")
		_, _ = w.Write(pngHeader)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	hc := srv.Client()
	hc.Timeout = 50 * time.Millisecond
	defer hc.CloseIdleConnections()
	c, err := New(WithAPIKey(testKey), WithHTTPClient(hc))
	require.NoError(t, err)

	p, err := c.PartFromURL(context.Background(), srv.URL+"/a.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", p.InlineData.MimeType)

	_, err = c.PartFromURL(context.Background(), srv.URL+"/slow")
	assert.Error(t, err)
}
