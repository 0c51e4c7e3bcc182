// Package llmclient adapts a langchaingo model to the domain.LLMClient port.
// The concrete provider (Anthropic in deployment) is constructed in main and
// injected here, so every pipeline component shares one configured client and
// tests can substitute a fake llms.Model.
package llmclient

import (
	"context"
	"errors"
	"time"

	"github.com/pkompalli/QBank-Generator/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

type LangchainClient struct {
	model   llms.Model
	timeout time.Duration
}

// New wraps a langchaingo model. timeout bounds every individual call;
// zero means no per-call deadline beyond the caller's context.
func New(model llms.Model, timeout time.Duration) *LangchainClient {
	return &LangchainClient{model: model, timeout: timeout}
}

func (c *LangchainClient) Generate(ctx context.Context, req domain.ChatRequest) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var messages []llms.MessageContent
	if req.System != "" {
		messages = append(messages, llms.MessageContent{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(req.System)},
		})
	}

	parts := make([]llms.ContentPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		if len(p.ImageData) > 0 {
			parts = append(parts, llms.BinaryPart(p.ImageMIME, p.ImageData))
			continue
		}
		if p.Text != "" {
			parts = append(parts, llms.TextPart(p.Text))
		}
	}
	messages = append(messages, llms.MessageContent{
		Role:  schema.ChatMessageTypeHuman,
		Parts: parts,
	})

	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	resp, err := c.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", domain.NewLLMServiceError(err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.NewLLMServiceError(errors.New("model returned no choices"))
	}
	return resp.Choices[0].Content, nil
}

var _ domain.LLMClient = (*LangchainClient)(nil)
