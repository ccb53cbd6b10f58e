// Package images downloads, sanitizes and stores photos attached to
// incoming messages.
package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Fetcher downloads media attachments over HTTP.
type Fetcher struct {
	Client *http.Client
}

// Fetch downloads the media at url and returns the raw bytes.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch media %s: unexpected status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
