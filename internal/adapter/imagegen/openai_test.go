package imagegen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/pkompalli/QBank-Generator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 1x1 transparent PNG.
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/images/generations", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompt, _ = req["prompt"].(string)

		json.NewEncoder(w).Encode(map[string]any{
			"created": 1,
			"data": []map[string]string{
				{"b64_json": base64.StdEncoding.EncodeToString(tinyPNG)},
			},
		})
	}))
	defer srv.Close()

	mediaDir := t.TempDir()
	gen := NewOpenAIGeneratorWithBaseURL("test-key", srv.URL, mediaDir, zap.NewNop())

	desc, err := gen.Generate(context.Background(), domain.SearchSpec{
		SearchTerms: []string{"tension pneumothorax", "chest"},
		Modality:    "xray",
	}, "A chest X-ray shows tracheal deviation.")

	require.NoError(t, err)
	require.NotNil(t, desc)
	assert.Equal(t, SourceNameGenerated, desc.SourceName)
	assert.Equal(t, "tension pneumothorax, chest", desc.Title)
	assert.True(t, strings.HasPrefix(desc.URL, mediaDir), "generated image lives under the media dir")

	written, err := os.ReadFile(desc.URL)
	require.NoError(t, err)
	assert.Equal(t, tinyPNG, written)

	assert.Contains(t, gotPrompt, "tension pneumothorax")
	assert.Contains(t, gotPrompt, "NO text")
}

func TestOpenAIGenerator_APIErrorIsDomainError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer srv.Close()

	gen := NewOpenAIGeneratorWithBaseURL("test-key", srv.URL, t.TempDir(), zap.NewNop())

	_, err := gen.Generate(context.Background(), domain.SearchSpec{SearchTerms: []string{"x"}}, "text")

	require.Error(t, err)
	domainErr, ok := domain.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeLLMServiceError, domainErr.Code)
}

func TestOpenAIGenerator_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"created": 1, "data": []map[string]string{}})
	}))
	defer srv.Close()

	gen := NewOpenAIGeneratorWithBaseURL("test-key", srv.URL, t.TempDir(), zap.NewNop())

	_, err := gen.Generate(context.Background(), domain.SearchSpec{SearchTerms: []string{"x"}}, "text")

	assert.Error(t, err)
}
