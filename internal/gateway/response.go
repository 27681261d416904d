package gateway

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nulzo/inference-gateway/internal/catalog"
	"github.com/nulzo/inference-gateway/internal/llm"
	"github.com/nulzo/inference-gateway/pkg/api"
)

// Response is the closed set of normalized results. Only types in this file implement it.
type Response interface {
	object() string
}

type TextResponse struct {
	Content   string
	Reasoning string
	Usage     api.Usage
}

type ImageResponse struct {
	URL           string
	RevisedPrompt string
}

type AudioResponse struct {
	Audio  []byte
	Format string
	Voice  string
}

type EmbeddingResponse struct {
	Vector     []float64
	Dimensions int
}

// UnsupportedResponse is the soft-degrade for categories that need binary input.
type UnsupportedResponse struct {
	Category catalog.Category
	Note     string
}

func (TextResponse) object() string        { return api.ObjectChatCompletion }
func (ImageResponse) object() string       { return api.ObjectImage }
func (AudioResponse) object() string       { return api.ObjectSpeech }
func (EmbeddingResponse) object() string   { return api.ObjectEmbedding }
func (UnsupportedResponse) object() string { return api.ObjectUnsupported }

// Result is a normalized response together with the model that produced it.
type Result struct {
	Category catalog.Category
	Model    string
	Response Response
}

// EstimateTokens is ceil(code points / 4). Every estimated usage figure goes through it.
func EstimateTokens(s string) int {
	return (utf8.RuneCountInString(s) + 3) / 4
}

// EstimateUsage estimates prompt and completion independently and sums them.
func EstimateUsage(prompt, completion string) api.Usage {
	p, c := EstimateTokens(prompt), EstimateTokens(completion)
	return api.Usage{PromptTokens: p, CompletionTokens: c, TotalTokens: p + c, Estimated: true}
}

// NormalizeText picks the first choice and moves inline <think> blocks out of
// the content. Provider usage wins over estimation.
func NormalizeText(instruction string, raw *llm.ChatResponse) TextResponse {
	var content, reasoning string
	if raw != nil && len(raw.Choices) > 0 {
		msg := raw.Choices[0].Message
		content, reasoning = splitReasoning(msg.Text())
		if reasoning == "" {
			reasoning = msg.Reasoning
		}
	}
	if strings.TrimSpace(content) == "" {
		content = api.NoResponsePlaceholder
	}

	if raw != nil && raw.Usage != nil {
		u := raw.Usage
		total := u.TotalTokens
		if total == 0 {
			total = u.PromptTokens + u.CompletionTokens
		}
		return TextResponse{Content: content, Reasoning: reasoning, Usage: api.Usage{
			PromptTokens:     u.PromptTokens,
			CompletionTokens: u.CompletionTokens,
			TotalTokens:      total,
		}}
	}
	return TextResponse{Content: content, Reasoning: reasoning, Usage: EstimateUsage(instruction, content)}
}

// NormalizeImage fails when the reply carries no image.
func NormalizeImage(raw *llm.ChatResponse) (ImageResponse, error) {
	if raw == nil || len(raw.Choices) == 0 {
		return ImageResponse{}, api.UpstreamFailure("image generation returned no choices", nil)
	}
	msg := raw.Choices[0].Message
	urls := msg.ImageURLs()
	if len(urls) == 0 {
		return ImageResponse{}, api.UpstreamFailure("image generation returned no image", nil)
	}
	return ImageResponse{URL: urls[0], RevisedPrompt: msg.Text()}, nil
}

func NormalizeEmbedding(raw *llm.EmbeddingResponse) (EmbeddingResponse, error) {
	if raw == nil || len(raw.Data) == 0 || len(raw.Data[0].Embedding) == 0 {
		return EmbeddingResponse{}, api.UpstreamFailure("embedding call returned no vector", nil)
	}
	v := raw.Data[0].Embedding
	return EmbeddingResponse{Vector: v, Dimensions: len(v)}, nil
}

func unsupported(c catalog.Category) UnsupportedResponse {
	return UnsupportedResponse{
		Category: c,
		Note: fmt.Sprintf("%s models require binary input and are not supported via this path. "+
			"Text generation, image generation, speech synthesis and embedding models are fully functional.", c),
	}
}

// ToInference renders r in the /inference contract.
func ToInference(r *Result, id string, created time.Time) api.InferenceResponse {
	out := api.InferenceResponse{
		ID:       id,
		Object:   r.Response.object(),
		Created:  created.Unix(),
		Model:    r.Model,
		Category: string(r.Category),
	}

	switch v := r.Response.(type) {
	case TextResponse:
		usage := v.Usage
		out.Choices = []api.Choice{{
			Index:        0,
			Message:      api.OutputMessage{Role: string(api.Assistant), Content: v.Content, Reasoning: v.Reasoning},
			FinishReason: "stop",
		}}
		out.Usage = &usage
	case ImageResponse:
		out.Data = []api.ImageData{{URL: v.URL, RevisedPrompt: v.RevisedPrompt}}
	case AudioResponse:
		out.Audio = base64.StdEncoding.EncodeToString(v.Audio)
		out.AudioFormat = v.Format
		out.Voice = v.Voice
	case EmbeddingResponse:
		out.Embedding = v.Vector
		out.Dimensions = v.Dimensions
	case UnsupportedResponse:
		out.Choices = []api.Choice{{
			Message:      api.OutputMessage{Role: string(api.Assistant), Content: v.Note},
			FinishReason: "unsupported",
		}}
		out.Note = v.Note
	}
	return out
}

// ToModelInference renders r in the flatter /model-inference contract.
func ToModelInference(r *Result) api.ModelInferenceResponse {
	out := api.ModelInferenceResponse{Model: r.Model, Category: string(r.Category)}

	switch v := r.Response.(type) {
	case TextResponse:
		usage := v.Usage
		out.Response = v.Content
		out.Reasoning = v.Reasoning
		out.Usage = &usage
	case ImageResponse:
		out.Response = v.RevisedPrompt
		out.ImageURL = v.URL
	case AudioResponse:
		out.Audio = base64.StdEncoding.EncodeToString(v.Audio)
		out.AudioFormat = v.Format
	case EmbeddingResponse:
		out.Embedding = v.Vector
		out.Dimensions = v.Dimensions
	case UnsupportedResponse:
		out.Response = fmt.Sprintf("Direct %s inference needs a binary upload.", v.Category)
		out.Note = v.Note
	}
	return out
}
