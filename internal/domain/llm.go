package domain

import "context"

// ChatPart is one block of a multimodal prompt: either text or an inline
// image attachment.
type ChatPart struct {
	Text      string
	ImageData []byte
	ImageMIME string
}

// TextPart builds a text-only part.
func TextPart(text string) ChatPart {
	return ChatPart{Text: text}
}

// ImagePart builds an inline image part.
func ImagePart(mime string, data []byte) ChatPart {
	return ChatPart{ImageMIME: mime, ImageData: data}
}

// ChatRequest is a single model call: an optional system persona, the user
// parts in order, and sampling parameters.
type ChatRequest struct {
	System      string
	Parts       []ChatPart
	Temperature float64
	MaxTokens   int
}

// LLMClient is the port for all model calls. It is constructed once at
// process start and injected into every component that talks to a model.
type LLMClient interface {
	Generate(ctx context.Context, req ChatRequest) (string, error)
}
