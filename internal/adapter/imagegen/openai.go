// Package imagegen provides the generative fallback for image resolution,
// backed by the OpenAI image API.
package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkompalli/QBank-Generator/internal/domain"
	"github.com/pkompalli/QBank-Generator/internal/util"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// SourceNameGenerated marks descriptors produced by generation rather than
// search, so downstream consumers can tell provenance apart.
const SourceNameGenerated = "generated"

// OpenAIGenerator synthesizes a medical illustration when no searched
// candidate clears the quality threshold. Generated images are written to
// mediaDir and referenced by local path.
type OpenAIGenerator struct {
	client   *openai.Client
	model    string
	mediaDir string
	logger   *zap.Logger
}

func NewOpenAIGenerator(apiKey, mediaDir string, logger *zap.Logger) *OpenAIGenerator {
	return &OpenAIGenerator{
		client:   openai.NewClient(apiKey),
		model:    openai.CreateImageModelDallE3,
		mediaDir: mediaDir,
		logger:   logger,
	}
}

// NewOpenAIGeneratorWithBaseURL exists for tests against a local server.
func NewOpenAIGeneratorWithBaseURL(apiKey, baseURL, mediaDir string, logger *zap.Logger) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenAIGenerator{
		client:   openai.NewClientWithConfig(cfg),
		model:    openai.CreateImageModelDallE3,
		mediaDir: mediaDir,
		logger:   logger,
	}
}

const generationPromptTemplate = `A clean, professional medical illustration for an exam question. Subject: %s (%s).

Context the illustration accompanies:
%s

Style: textbook-quality medical diagram or schematic rendering. CRITICAL: the image must contain NO text, NO labels, and NO captions of any kind, because overlaid text could reveal the exam answer.`

func (g *OpenAIGenerator) Generate(ctx context.Context, spec domain.SearchSpec, sourceText string) (*domain.ImageDescriptor, error) {
	subject := strings.Join(spec.SearchTerms, ", ")
	prompt := fmt.Sprintf(generationPromptTemplate, subject, spec.Modality, sourceText)

	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Model:          g.model,
		Prompt:         prompt,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, domain.NewLLMServiceError(fmt.Errorf("image generation failed: %w", err))
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, domain.NewLLMServiceError(fmt.Errorf("image generation returned no data"))
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, domain.NewLLMServiceError(fmt.Errorf("failed to decode generated image: %w", err))
	}

	path, err := g.save(data)
	if err != nil {
		return nil, err
	}
	g.logger.Info("Generated fallback image",
		zap.String("subject", subject),
		zap.String("path", path),
	)

	return &domain.ImageDescriptor{
		URL:        path,
		SourceName: SourceNameGenerated,
		Title:      subject,
	}, nil
}

func (g *OpenAIGenerator) save(data []byte) (string, error) {
	if err := os.MkdirAll(g.mediaDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	path := filepath.Join(g.mediaDir, util.NewULID()+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write generated image: %w", err)
	}
	return path, nil
}

var _ domain.ImageGenerator = (*OpenAIGenerator)(nil)
