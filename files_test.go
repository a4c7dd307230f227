package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uploadedFile = `{"name":"files/abc","displayName":"cat","mimeType":"image/png","sizeBytes":"29","uri":"https://example.com/v1beta/files/abc","state":"ACTIVE"}`

// uploadServer implements both phases of the resumable protocol. finalize is
// the body returned by the second phase.
func uploadServer(t *testing.T, finalize string) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/upload/v1beta/files", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, testKey, r.URL.Query().Get("key"))
		assert.Equal(t, "resumable", r.Header.Get("X-Goog-Upload-Protocol"))
		assert.Equal(t, "start", r.Header.Get("X-Goog-Upload-Command"))
		assert.Equal(t, "image/png", r.Header.Get("X-Goog-Upload-Header-Content-Type"))
		assert.Equal(t, "29", r.Header.Get("X-Goog-Upload-Header-Content-Length"))
		var start map[string]map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&start))
		assert.Equal(t, "cat", start["file"]["display_name"])
		w.Header().Set("X-Goog-Upload-URL", "http://"+r.Host+"/session?upload_id=xyz")
	})
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "xyz", r.URL.Query().Get("upload_id"))
		assert.Equal(t, "0", r.Header.Get("X-Goog-Upload-Offset"))
		assert.Equal(t, "upload, finalize", r.Header.Get("X-Goog-Upload-Command"))
		data, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, pngHeader, data)
		_, _ = w.Write([]byte(finalize))
	})
	mux.HandleFunc("/v1beta/files", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"files":[` + uploadedFile + `]}`))
	})
	return mux
}

func writePNG(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))
	return path
}

func TestUpload(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, uploadServer(t, `{"file":`+uploadedFile+`}`))
	f, err := c.Upload(context.Background(), writePNG(t, "cat.final.png"), "")
	require.NoError(t, err)
	assert.Equal(t, "files/abc", f.Name)
	assert.Equal(t, FileStateActive, f.State)
	assert.Equal(t, "https://example.com/v1beta/files/abc", f.URI)
}

func TestUpload_FallsBackToList(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, uploadServer(t, `{}`))
	f, err := c.Upload(context.Background(), writePNG(t, "cat.png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "files/abc", f.Name)
}

func TestUpload_MissingSessionURL(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	_, err := c.UploadBytes(context.Background(), "cat", "image/png", pngHeader)
	assert.ErrorIs(t, err, ErrUploadURLMissing)
}

func TestUploadAll(t *testing.T) {
	t.Parallel()
	var n atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/upload/v1beta/files", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Goog-Upload-URL", "http://"+r.Host+"/session")
	})
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		n.Add(1)
		_, _ = w.Write([]byte(`{"file":` + uploadedFile + `}`))
	})
	c := newTestClient(t, mux)
	files, err := c.UploadAll(context.Background(), writePNG(t, "a.png"), writePNG(t, "b.png"), writePNG(t, "c.png"))
	require.NoError(t, err)
	assert.Len(t, files, 3)
	assert.EqualValues(t, 3, n.Load())

	_, err = c.UploadAll(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDisplayName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "cat", displayName("/tmp/cat.final.png"))
	assert.Equal(t, ".hidden", displayName(".hidden"))
	assert.Equal(t, "noext", displayName("dir/noext"))
}
