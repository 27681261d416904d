package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nulzo/inference-gateway/internal/config"
	"github.com/nulzo/inference-gateway/internal/httpclient"
	"github.com/nulzo/inference-gateway/internal/llm"
)

func init() {
	llm.Register(string(llm.Ollama), NewAdapter)
}

// Adapter speaks the native Ollama API. It serves chat and embeddings only.
type Adapter struct {
	config  config.ProviderConfig
	client  httpclient.HTTPClient
	rootURL string
}

func NewAdapter(cfg config.ProviderConfig) (llm.Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Adapter{
		config:  cfg,
		client:  &http.Client{Timeout: timeout},
		rootURL: strings.TrimSuffix(strings.TrimRight(cfg.BaseURL, "/"), "/v1"),
	}, nil
}

func (a *Adapter) Name() string {
	return a.config.ID
}

func (a *Adapter) Type() string {
	return string(llm.Ollama)
}

type chatRequest struct {
	Model    string            `json:"model"`
	Messages []llm.ChatMessage `json:"messages"`
	Stream   bool              `json:"stream"`
	Options  chatOptions       `json:"options"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	DoneReason      string `json:"done_reason"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func (a *Adapter) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	if len(req.Modalities) > 0 {
		return nil, fmt.Errorf("%s image output: %w", a.config.ID, llm.ErrUnsupported)
	}

	body := chatRequest{
		Model:    req.Model,
		Messages: req.Messages,
		Options:  chatOptions{Temperature: req.Temperature, NumPredict: req.MaxTokens},
	}

	var resp chatResponse
	if err := httpclient.SendRequest(ctx, a.client, http.MethodPost, a.rootURL+"/api/chat", nil, body, &resp); err != nil {
		return nil, fmt.Errorf("%s chat: %w", a.config.ID, err)
	}

	content, _ := json.Marshal(resp.Message.Content)
	out := &llm.ChatResponse{
		Model: resp.Model,
		Choices: []llm.ChatChoice{{
			Message:      llm.ResponseMessage{Role: resp.Message.Role, Content: content},
			FinishReason: resp.DoneReason,
		}},
	}
	if resp.PromptEvalCount > 0 || resp.EvalCount > 0 {
		out.Usage = &llm.TokenUsage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		}
	}
	return out, nil
}

func (a *Adapter) Speech(_ context.Context, _ *llm.SpeechRequest) (*llm.SpeechResponse, error) {
	return nil, fmt.Errorf("%s speech: %w", a.config.ID, llm.ErrUnsupported)
}

func (a *Adapter) Embed(ctx context.Context, req *llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	var resp struct {
		Model           string      `json:"model"`
		Embeddings      [][]float64 `json:"embeddings"`
		PromptEvalCount int         `json:"prompt_eval_count"`
	}
	body := map[string]interface{}{"model": req.Model, "input": req.Input}
	if err := httpclient.SendRequest(ctx, a.client, http.MethodPost, a.rootURL+"/api/embed", nil, body, &resp); err != nil {
		return nil, fmt.Errorf("%s embeddings: %w", a.config.ID, err)
	}

	out := &llm.EmbeddingResponse{Model: resp.Model}
	for i, e := range resp.Embeddings {
		out.Data = append(out.Data, llm.EmbeddingData{Index: i, Embedding: e})
	}
	if resp.PromptEvalCount > 0 {
		out.Usage = &llm.TokenUsage{PromptTokens: resp.PromptEvalCount, TotalTokens: resp.PromptEvalCount}
	}
	return out, nil
}

func (a *Adapter) Health(ctx context.Context) error {
	if err := httpclient.SendRequest(ctx, a.client, http.MethodGet, a.rootURL+"/api/version", nil, nil, nil); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}
