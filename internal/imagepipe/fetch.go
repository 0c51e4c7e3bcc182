// Package imagepipe implements the image sourcing and selection pipeline:
// candidate collection from external media sources, vision-model scoring,
// generative fallback, best-effort annotation, and cached resolution.
package imagepipe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// maxImageBytes bounds a single download; anything larger is not a usable
// candidate for inline prompting anyway.
const maxImageBytes = 20 << 20

// Fetcher loads image bytes from remote URLs or local paths and sniffs the
// real media type from magic bytes. File extensions are routinely wrong or
// absent for generated filenames, so they are never consulted.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch returns the image bytes and detected MIME type for ref. ref is either
// an absolute http(s) URL or a filesystem path; both are treated uniformly.
func (f *Fetcher) Fetch(ctx context.Context, ref string) ([]byte, string, error) {
	var data []byte

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, "", fmt.Errorf("invalid image URL %s: %w", ref, err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, "", fmt.Errorf("failed to download %s: %w", ref, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, "", fmt.Errorf("download of %s returned status %d", ref, resp.StatusCode)
		}
		data, err = io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
		if err != nil {
			return nil, "", fmt.Errorf("failed to read body of %s: %w", ref, err)
		}
	} else {
		var err error
		data, err = os.ReadFile(ref)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read local image %s: %w", ref, err)
		}
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, "", fmt.Errorf("%s is not an image (detected %s)", ref, mime.String())
	}
	return data, mime.String(), nil
}

func detectMIME(data []byte) string {
	return mimetype.Detect(data).String()
}
