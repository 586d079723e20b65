package importer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer server.Close()

	fetcher := HTTPFetcher{}

	body, err := fetcher.Fetch(context.Background(), server.URL+"/archive.tar.gz")
	require.NoError(t, err)
	defer body.Close()

	content, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))

	_, err = fetcher.Fetch(context.Background(), server.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFileFetcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0o644))

	fetcher := FileFetcher{}

	for _, location := range []string{path, "file://" + path} {
		body, err := fetcher.Fetch(context.Background(), location)
		require.NoError(t, err, "location %s", location)

		content, err := io.ReadAll(body)
		body.Close()
		require.NoError(t, err)
		assert.Equal(t, "payload", string(content))
	}

	_, err := fetcher.Fetch(context.Background(), filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
