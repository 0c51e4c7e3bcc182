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

const openiDefaultBaseURL = "https://openi.nlm.nih.gov"

// openiModalities maps our modality hints to Open-i's image-type taxonomy.
var openiModalities = map[string]string{
	"xray":       "x",
	"x-ray":      "x",
	"radiograph": "x",
	"ct":         "c",
	"mri":        "m",
	"ultrasound": "u",
	"microscopy": "mc",
	"histology":  "mc",
	"photograph": "ph",
	"clinical":   "ph",
	"diagram":    "g",
	"graphic":    "g",
	"flowchart":  "g",
}

// OpenIAdapter searches the NLM Open-i biomedical image service.
type OpenIAdapter struct {
	client  *http.Client
	baseURL string
}

func NewOpenIAdapter(timeout time.Duration) *OpenIAdapter {
	return NewOpenIAdapterWithBaseURL(openiDefaultBaseURL, timeout)
}

// NewOpenIAdapterWithBaseURL exists for tests against a local server.
func NewOpenIAdapterWithBaseURL(baseURL string, timeout time.Duration) *OpenIAdapter {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &OpenIAdapter{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (o *OpenIAdapter) Name() string { return "openi" }

type openiResult struct {
	List []struct {
		Title    string `json:"title"`
		ImgLarge string `json:"imgLarge"`
		ImgThumb string `json:"imgThumb"`
	} `json:"list"`
}

func (o *OpenIAdapter) Search(ctx context.Context, spec domain.SearchSpec, limit int) ([]domain.ImageDescriptor, error) {
	terms := spec.SearchTerms
	if len(terms) > maxSearchTerms {
		terms = terms[:maxSearchTerms]
	}

	params := url.Values{}
	params.Set("query", strings.Join(terms, " "))
	params.Set("m", "1")
	params.Set("n", fmt.Sprintf("%d", limit))
	if it, ok := openiModalities[strings.ToLower(strings.TrimSpace(spec.Modality))]; ok {
		params.Set("it", it)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/search?"+params.Encode(), nil)
	if err != nil {
		return nil, domain.NewImageSourceError(o.Name(), err)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, domain.NewImageSourceError(o.Name(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewImageSourceError(o.Name(), fmt.Errorf("status %d", resp.StatusCode))
	}

	var result openiResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, domain.NewImageSourceError(o.Name(), fmt.Errorf("decode response: %w", err))
	}

	candidates := make([]domain.ImageDescriptor, 0, len(result.List))
	for _, e := range result.List {
		img := e.ImgLarge
		if img == "" {
			img = e.ImgThumb
		}
		if img == "" {
			continue
		}
		if strings.HasPrefix(img, "/") {
			img = o.baseURL + img
		}
		candidates = append(candidates, domain.ImageDescriptor{
			URL:        img,
			SourceName: o.Name(),
			Title:      e.Title,
		})
		if len(candidates) == limit {
			break
		}
	}
	return candidates, nil
}

var _ domain.MediaSource = (*OpenIAdapter)(nil)
