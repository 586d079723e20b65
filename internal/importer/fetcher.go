package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Fetcher retrieves raw bytes from a source location. Fetching is an
// opaque byte service: the importer does not retry and maps any failure to
// SOURCE_UNAVAILABLE.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (io.ReadCloser, error)
}

// HTTPFetcher fetches over HTTP(S) with a plain GET and no retries.
type HTTPFetcher struct {
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

// Fetch issues a GET for the location and returns the response body.
// Any transport error or non-200 status is a fetch failure.
func (f HTTPFetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", location, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return resp.Body, nil
}

// FileFetcher serves locations from the local filesystem, for offline
// installs from an already-downloaded archive and for tests. A "file://"
// prefix is accepted and stripped.
type FileFetcher struct{}

// Fetch opens the local file at the location.
func (FileFetcher) Fetch(_ context.Context, location string) (io.ReadCloser, error) {
	path := strings.TrimPrefix(location, "file://")
	return os.Open(path)
}
