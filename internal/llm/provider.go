package llm

import (
	"context"
	"errors"
)

type ProviderName string

const (
	OpenAI ProviderName = "openai"
	Ollama ProviderName = "ollama"
)

// ErrUnsupported is returned by a provider that has no endpoint for an operation.
var ErrUnsupported = errors.New("operation not supported by provider")

// Provider is one downstream backend. Each method issues exactly one outbound call.
type Provider interface {
	Name() string
	Type() string
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	Speech(ctx context.Context, req *SpeechRequest) (*SpeechResponse, error)
	Embed(ctx context.Context, req *EmbeddingRequest) (*EmbeddingResponse, error)
	Health(ctx context.Context) error
}
