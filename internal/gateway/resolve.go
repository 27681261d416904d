package gateway

import (
	"strings"

	"github.com/nulzo/inference-gateway/internal/catalog"
)

// Downstream fallbacks per calling convention.
const (
	DefaultTextModel      = "openai/gpt-4o-mini"
	DefaultImageModel     = "google/gemini-2.5-flash-image"
	DefaultSpeechModel    = "tts-openai/tts-1"
	DefaultHDSpeechModel  = "tts-openai/tts-1-hd"
	DefaultEmbeddingModel = "emb-openai/text-embedding-3-small"
)

var textAliases = map[string]string{
	"llama-3.1-70b":        "meta-llama/llama-3.1-70b-instruct",
	"llama-3.1-8b":         "meta-llama/llama-3.1-8b-instruct",
	"mistral-large":        "mistralai/mistral-large-latest",
	"mixtral-8x22b":        "mistralai/mixtral-8x22b-instruct",
	"qwen-72b":             "qwen/qwen-2.5-72b-instruct",
	"gemma-2-27b":          "google/gemma-2-27b-it",
	"claude-3-opus":        "anthropic/claude-3-opus",
	"gpt-4-turbo":          "openai/gpt-4-turbo",
	"gemini-pro":           "google/gemini-pro",
	"command-r-plus":       "cohere/command-r-plus",
	"o1-preview":           "openai/o1-preview",
	"claude-3-sonnet":      "anthropic/claude-3-sonnet",
	"deepseek-r1":          "deepseek/deepseek-r1",
	"deepseek-coder-33b":   "deepseek/deepseek-coder-33b-instruct",
	"codellama-70b":        "meta-llama/codellama-70b-instruct",
	"starcoder2-15b":       "bigcode/starcoder2-15b",
	"llava-1.6-34b":        "liuhaotian/llava-v1.6-34b",
	"llama-3.2-90b-vision": "meta-llama/llama-3.2-90b-vision-instruct",
	"qwen-vl-max":          "qwen/qwen-vl-max",
	"phi-3-vision":         "microsoft/phi-3-vision-128k-instruct",
}

var speechAliases = map[string]string{
	"tts-1":               DefaultSpeechModel,
	"tts-1-hd":            DefaultHDSpeechModel,
	"eleven-multilingual": DefaultHDSpeechModel,
	"eleven-multilangual": DefaultHDSpeechModel,
	"xtts-v2":             DefaultSpeechModel,
	"bark":                DefaultSpeechModel,
}

// Resolver maps client-facing model ids to downstream ids. It is read-only
// after construction.
type Resolver struct {
	aliases    map[string]string
	speech     map[string]string
	downstream map[string]bool
	defaults   map[catalog.Category]string
}

// NewResolver merges overrides (client id -> downstream id) over the built-in
// alias table. categoryDefaults replaces the fallback model of a category.
func NewResolver(overrides map[string]string, categoryDefaults map[string]string) *Resolver {
	r := &Resolver{
		aliases:    make(map[string]string, len(textAliases)+len(overrides)),
		speech:     make(map[string]string, len(speechAliases)),
		downstream: make(map[string]bool),
		defaults:   make(map[catalog.Category]string),
	}

	for k, v := range textAliases {
		r.aliases[k] = v
	}
	for k, v := range speechAliases {
		r.speech[k] = v
	}
	for k, v := range overrides {
		r.aliases[strings.ToLower(k)] = v
	}

	for _, c := range catalog.Categories {
		switch {
		case c.IsText():
			r.defaults[c] = DefaultTextModel
		case c == catalog.ImageGen:
			r.defaults[c] = DefaultImageModel
		case c == catalog.TTS:
			r.defaults[c] = DefaultSpeechModel
		case c == catalog.Embedding:
			r.defaults[c] = DefaultEmbeddingModel
		}
	}
	for k, v := range categoryDefaults {
		if c, ok := catalog.ParseCategory(k); ok && v != "" {
			r.defaults[c] = v
		}
	}

	for _, v := range r.aliases {
		r.downstream[strings.ToLower(v)] = true
	}
	for _, v := range r.speech {
		r.downstream[strings.ToLower(v)] = true
	}
	for _, v := range r.defaults {
		r.downstream[strings.ToLower(v)] = true
	}

	return r
}

// Resolve returns the downstream id for modelID in category c. Unknown ids fall
// back to the category default; categories without one keep the requested id.
func (r *Resolver) Resolve(modelID string, c catalog.Category) string {
	key := strings.ToLower(strings.TrimSpace(modelID))

	if c == catalog.TTS {
		if v, ok := lookup(r.speech, key); ok {
			return v
		}
	}
	if v, ok := lookup(r.aliases, key); ok {
		return v
	}
	if r.downstream[key] {
		return modelID
	}
	if d, ok := r.defaults[c]; ok {
		return d
	}
	return modelID
}

// ResolveSpeech is the /audio/speech mapping: known aliases are rewritten,
// anything else is forwarded untouched, empty selects the HD default.
func (r *Resolver) ResolveSpeech(model string) string {
	if strings.TrimSpace(model) == "" {
		return DefaultHDSpeechModel
	}
	if v, ok := lookup(r.speech, strings.ToLower(model)); ok {
		return v
	}
	return model
}

// lookup tries the full key, then the segment after the last slash.
func lookup(m map[string]string, key string) (string, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	if i := strings.LastIndex(key, "/"); i >= 0 {
		v, ok := m[key[i+1:]]
		return v, ok
	}
	return "", false
}
