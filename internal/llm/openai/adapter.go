package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nulzo/inference-gateway/internal/config"
	"github.com/nulzo/inference-gateway/internal/httpclient"
	"github.com/nulzo/inference-gateway/internal/llm"
)

func init() {
	llm.Register(string(llm.OpenAI), NewAdapter)
}

// Adapter talks to any OpenAI-compatible gateway (OpenAI, VseGPT, OpenRouter style).
type Adapter struct {
	config config.ProviderConfig
	client httpclient.HTTPClient
}

func NewAdapter(cfg config.ProviderConfig) (llm.Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Adapter{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (a *Adapter) Name() string {
	return a.config.ID
}

func (a *Adapter) Type() string {
	return string(llm.OpenAI)
}

func (a *Adapter) headers() map[string]string {
	headers := map[string]string{
		"Authorization": "Bearer " + a.config.APIKey,
	}
	if org, ok := a.config.Config["organization"]; ok {
		headers["OpenAI-Organization"] = org
	}
	return headers
}

func (a *Adapter) url(path string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(a.config.BaseURL, "/"), path)
}

func (a *Adapter) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	var resp llm.ChatResponse
	if err := httpclient.SendRequest(ctx, a.client, http.MethodPost, a.url("chat/completions"), a.headers(), req, &resp); err != nil {
		return nil, fmt.Errorf("%s chat: %w", a.config.ID, err)
	}
	return &resp, nil
}

func (a *Adapter) Speech(ctx context.Context, req *llm.SpeechRequest) (*llm.SpeechResponse, error) {
	audio, contentType, err := httpclient.SendRaw(ctx, a.client, http.MethodPost, a.url("audio/speech"), a.headers(), req)
	if err != nil {
		return nil, fmt.Errorf("%s speech: %w", a.config.ID, err)
	}
	return &llm.SpeechResponse{Audio: audio, ContentType: contentType}, nil
}

func (a *Adapter) Embed(ctx context.Context, req *llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	var resp llm.EmbeddingResponse
	if err := httpclient.SendRequest(ctx, a.client, http.MethodPost, a.url("embeddings"), a.headers(), req, &resp); err != nil {
		return nil, fmt.Errorf("%s embeddings: %w", a.config.ID, err)
	}
	return &resp, nil
}

func (a *Adapter) Health(ctx context.Context) error {
	if err := httpclient.SendRequest(ctx, a.client, http.MethodGet, a.url("models"), a.headers(), nil, nil); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}
