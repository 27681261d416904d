package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nulzo/inference-gateway/internal/config"
	"github.com/nulzo/inference-gateway/internal/httpclient"
	"github.com/nulzo/inference-gateway/internal/llm"
	"github.com/nulzo/inference-gateway/internal/llm/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdapter(t *testing.T, url string) llm.Provider {
	t.Helper()
	adapter, err := openai.NewAdapter(config.ProviderConfig{
		ID:      "openai-test",
		Type:    "openai",
		APIKey:  "test-key",
		BaseURL: url + "/v1",
	})
	require.NoError(t, err)
	return adapter
}

func TestOpenAIChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body llm.ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "meta-llama/llama-3.1-70b-instruct", body.Model)
		assert.Equal(t, 256, body.MaxTokens)
		assert.Empty(t, body.Modalities)

		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-123",
			"model": "meta-llama/llama-3.1-70b-instruct",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "Hello there!"},
				"finish_reason": "stop"
			}],
			"usage": {"prompt_tokens": 9, "completion_tokens": 12, "total_tokens": 21}
		}`))
	}))
	defer server.Close()

	adapter := newAdapter(t, server.URL)

	resp, err := adapter.Chat(context.Background(), &llm.ChatRequest{
		Model:       "meta-llama/llama-3.1-70b-instruct",
		Messages:    []llm.ChatMessage{{Role: "user", Content: "Hi"}},
		Temperature: 0.7,
		MaxTokens:   256,
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello there!", resp.Choices[0].Message.Text())
	assert.Equal(t, 21, resp.Usage.TotalTokens)
	assert.Equal(t, "openai-test", adapter.Name())
}

func TestOpenAIChat_ImageModalities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body llm.ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"image", "text"}, body.Modalities)

		_, _ = w.Write([]byte(`{
			"choices": [{
				"message": {
					"role": "assistant",
					"content": "A red cube on white.",
					"images": [{"type": "image_url", "image_url": {"url": "data:image/png;base64,AAAA"}}]
				}
			}]
		}`))
	}))
	defer server.Close()

	resp, err := newAdapter(t, server.URL).Chat(context.Background(), &llm.ChatRequest{
		Model:      "google/gemini-2.5-flash-image",
		Messages:   []llm.ChatMessage{{Role: "user", Content: "a red cube"}},
		Modalities: []string{"image", "text"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"data:image/png;base64,AAAA"}, resp.Choices[0].Message.ImageURLs())
	assert.Equal(t, "A red cube on white.", resp.Choices[0].Message.Text())
}

func TestOpenAISpeech(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)

		var body llm.SpeechRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "nova", body.Voice)
		assert.Equal(t, "mp3", body.ResponseFormat)

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3-audio"))
	}))
	defer server.Close()

	resp, err := newAdapter(t, server.URL).Speech(context.Background(), &llm.SpeechRequest{
		Model: "tts-openai/tts-1", Input: "hello", Voice: "nova", ResponseFormat: "mp3", Speed: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, []byte("ID3-audio"), resp.Audio)
	assert.Equal(t, "audio/mpeg", resp.ContentType)
}

func TestOpenAIEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer server.Close()

	resp, err := newAdapter(t, server.URL).Embed(context.Background(), &llm.EmbeddingRequest{
		Model: "emb-openai/text-embedding-3-small", Input: []string{"hello"},
	})

	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, resp.Data[0].Embedding)
}

func TestOpenAIChat_UpstreamErrorIsWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer server.Close()

	_, err := newAdapter(t, server.URL).Chat(context.Background(), &llm.ChatRequest{Model: "x"})

	var upstream *httpclient.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
}
