package llmclient

import (
	"context"
	"errors"
	"testing"

	"github.com/pkompalli/QBank-Generator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// fakeModel records the messages it receives and returns a canned response.
type fakeModel struct {
	gotMessages  []llms.MessageContent
	response     string
	err          error
	emptyChoices bool
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.gotMessages = messages
	if f.err != nil {
		return nil, f.err
	}
	if f.emptyChoices {
		return &llms.ContentResponse{}, nil
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := f.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(schema.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func TestLangchainClient_Generate(t *testing.T) {
	model := &fakeModel{response: "hello"}
	client := New(model, 0)

	out, err := client.Generate(context.Background(), domain.ChatRequest{
		System: "You are a reviewer.",
		Parts: []domain.ChatPart{
			domain.TextPart("Q1: ..."),
			domain.ImagePart("image/png", []byte{0x89, 0x50}),
		},
		Temperature: 0.2,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	// System message first, then one human message with both parts.
	require.Len(t, model.gotMessages, 2)
	assert.Equal(t, schema.ChatMessageTypeSystem, model.gotMessages[0].Role)
	assert.Equal(t, schema.ChatMessageTypeHuman, model.gotMessages[1].Role)
	assert.Len(t, model.gotMessages[1].Parts, 2)
}

func TestLangchainClient_NoSystemMessage(t *testing.T) {
	model := &fakeModel{response: "ok"}
	client := New(model, 0)

	_, err := client.Generate(context.Background(), domain.ChatRequest{
		Parts: []domain.ChatPart{domain.TextPart("prompt")},
	})
	require.NoError(t, err)
	require.Len(t, model.gotMessages, 1)
	assert.Equal(t, schema.ChatMessageTypeHuman, model.gotMessages[0].Role)
}

func TestLangchainClient_Error(t *testing.T) {
	model := &fakeModel{err: errors.New("boom")}
	client := New(model, 0)

	_, err := client.Generate(context.Background(), domain.ChatRequest{
		Parts: []domain.ChatPart{domain.TextPart("prompt")},
	})
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeLLMServiceError, domainErr.Code)
}

func TestLangchainClient_EmptyChoices(t *testing.T) {
	model := &fakeModel{emptyChoices: true}
	client := New(model, 0)

	_, err := client.Generate(context.Background(), domain.ChatRequest{
		Parts: []domain.ChatPart{domain.TextPart("prompt")},
	})
	assert.Error(t, err)
}
