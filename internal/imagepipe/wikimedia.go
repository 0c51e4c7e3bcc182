package imagepipe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkompalli/QBank-Generator/internal/domain"
)

const wikimediaDefaultBaseURL = "https://commons.wikimedia.org"

// WikimediaAdapter searches Wikimedia Commons. The modality hint has no
// native taxonomy here, so it is folded into the search string.
type WikimediaAdapter struct {
	client  *http.Client
	baseURL string
}

func NewWikimediaAdapter(timeout time.Duration) *WikimediaAdapter {
	return NewWikimediaAdapterWithBaseURL(wikimediaDefaultBaseURL, timeout)
}

// NewWikimediaAdapterWithBaseURL exists for tests against a local server.
func NewWikimediaAdapterWithBaseURL(baseURL string, timeout time.Duration) *WikimediaAdapter {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &WikimediaAdapter{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (w *WikimediaAdapter) Name() string { return "wikimedia" }

type wikimediaResult struct {
	Query struct {
		Pages map[string]struct {
			Title     string `json:"title"`
			ImageInfo []struct {
				URL string `json:"url"`
			} `json:"imageinfo"`
		} `json:"pages"`
	} `json:"query"`
}

func (w *WikimediaAdapter) Search(ctx context.Context, spec domain.SearchSpec, limit int) ([]domain.ImageDescriptor, error) {
	terms := spec.SearchTerms
	if len(terms) > maxSearchTerms {
		terms = terms[:maxSearchTerms]
	}
	search := strings.Join(terms, " ")
	if m := strings.TrimSpace(spec.Modality); m != "" {
		search += " " + m
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("generator", "search")
	params.Set("gsrsearch", "filetype:bitmap "+search)
	params.Set("gsrnamespace", "6")
	params.Set("gsrlimit", fmt.Sprintf("%d", limit))
	params.Set("prop", "imageinfo")
	params.Set("iiprop", "url")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/w/api.php?"+params.Encode(), nil)
	if err != nil {
		return nil, domain.NewImageSourceError(w.Name(), err)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, domain.NewImageSourceError(w.Name(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewImageSourceError(w.Name(), fmt.Errorf("status %d", resp.StatusCode))
	}

	var result wikimediaResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, domain.NewImageSourceError(w.Name(), fmt.Errorf("decode response: %w", err))
	}

	candidates := make([]domain.ImageDescriptor, 0, len(result.Query.Pages))
	for _, page := range result.Query.Pages {
		if len(page.ImageInfo) == 0 || page.ImageInfo[0].URL == "" {
			continue
		}
		candidates = append(candidates, domain.ImageDescriptor{
			URL:        page.ImageInfo[0].URL,
			SourceName: w.Name(),
			Title:      strings.TrimPrefix(page.Title, "File:"),
		})
		if len(candidates) == limit {
			break
		}
	}
	return candidates, nil
}

var _ domain.MediaSource = (*WikimediaAdapter)(nil)
