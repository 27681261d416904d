package gateway

import (
	"strings"

	"github.com/nulzo/inference-gateway/internal/catalog"
	"github.com/nulzo/inference-gateway/pkg/api"
)

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 256
	DefaultVoice       = "nova"
	DefaultAudioFormat = "mp3"
	DefaultSpeed       = 1.0
)

// CanonicalRequest is the provider-agnostic form of one inference call.
type CanonicalRequest struct {
	Category       catalog.Category
	RequestedModel string
	ResolvedModel  string
	Instruction    string
	Temperature    float64
	MaxTokens      int

	Voice  string
	Format string
	Speed  float64
}

// Example payload attached to validation failures.
var InferenceExample = map[string]interface{}{
	"model":  "llama-3.1-70b",
	"prompt": "Explain quantum computing in simple terms",
}

// Normalize reduces a request body to a CanonicalRequest. Category and model
// resolution are left to the caller.
func Normalize(req *api.InferenceRequest) (*CanonicalRequest, error) {
	instruction, err := instructionOf(req)
	if err != nil {
		return nil, err
	}

	out := &CanonicalRequest{
		RequestedModel: req.Model,
		Instruction:    instruction,
		Temperature:    DefaultTemperature,
		MaxTokens:      DefaultMaxTokens,
		Voice:          DefaultVoice,
		Format:         DefaultAudioFormat,
		Speed:          DefaultSpeed,
	}

	if req.Temperature != nil {
		out.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		out.MaxTokens = *req.MaxTokens
	}
	if req.Voice != "" {
		out.Voice = req.Voice
	}
	if req.ResponseFormat != "" {
		out.Format = req.ResponseFormat
	}
	if req.Speed != nil {
		out.Speed = *req.Speed
	}

	return out, nil
}

func instructionOf(req *api.InferenceRequest) (string, error) {
	if req.Prompt != nil && strings.TrimSpace(*req.Prompt) != "" {
		return *req.Prompt, nil
	}

	if len(req.Messages) == 0 {
		return "", api.MissingField("prompt", "Either prompt or messages is required",
			api.WithExample(InferenceExample))
	}

	for i := len(req.Messages) - 1; i >= 0; i-- {
		m := req.Messages[i]
		if m.Role != string(api.User) {
			continue
		}
		if text := Flatten(m.Content); strings.TrimSpace(text) != "" {
			return text, nil
		}
		return "", api.MissingField("messages", "The last user message has no text content",
			api.WithExample(InferenceExample))
	}

	return "", api.MissingField("messages", "messages must contain at least one entry with role \"user\"",
		api.WithExample(InferenceExample))
}

// Flatten keeps only the text parts of structured content, joined by newlines.
func Flatten(c api.Content) string {
	if c.Parts == nil {
		return c.Text
	}
	texts := make([]string, 0, len(c.Parts))
	for _, p := range c.Parts {
		if p.Type == "text" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}
