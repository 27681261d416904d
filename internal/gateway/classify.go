package gateway

import (
	"strings"

	"github.com/nulzo/inference-gateway/internal/catalog"
)

// Rule maps any of its substring patterns to a category.
type Rule struct {
	Category catalog.Category
	Patterns []string
}

// Matches reports whether the lower-cased id contains any pattern.
func (r Rule) Matches(id string) bool {
	for _, p := range r.Patterns {
		if strings.Contains(id, p) {
			return true
		}
	}
	return false
}

// DefaultCategory is returned when no rule matches.
const DefaultCategory = catalog.Chat

// Rules is evaluated top to bottom and the first match wins, so speech and
// media patterns sit above the generic text families. An id such as
// "llava-coder" matches both code and vision and is classified as code.
var Rules = []Rule{
	{Category: catalog.TTS, Patterns: []string{"tts", "eleven", "xtts", "bark"}},
	{Category: catalog.Audio, Patterns: []string{"whisper", "stt", "seamless", "canary"}},
	{Category: catalog.ImageGen, Patterns: []string{"sdxl", "kandinsky", "playground", "stable-diffusion", "flux"}},
	{Category: catalog.ImageEdit, Patterns: []string{"instruct-pix", "controlnet"}},
	{Category: catalog.Video, Patterns: []string{"stable-video", "animatediff"}},
	{Category: catalog.Embedding, Patterns: []string{"bge", "e5-", "nomic", "embed"}},
	{Category: catalog.Document, Patterns: []string{"layoutlm", "donut", "trocr", "surya", "ocr"}},
	{Category: catalog.LLM, Patterns: []string{"llama", "mistral", "qwen", "gemma"}},
	{Category: catalog.Chat, Patterns: []string{"claude", "gpt", "gemini", "command"}},
	{Category: catalog.Reasoning, Patterns: []string{"o1", "deepseek"}},
	{Category: catalog.Code, Patterns: []string{"coder", "starcoder", "codellama"}},
	{Category: catalog.Vision, Patterns: []string{"vision", "llava", "cogvlm", "internvl", "phi-3-vision"}},
	{Category: catalog.Agents, Patterns: []string{"interpreter", "agent"}},
	{Category: catalog.FineTune, Patterns: []string{"-ft"}},
}

// Classify maps a model id to exactly one category. It never fails.
func Classify(modelID string) catalog.Category {
	return classifyWith(Rules, modelID)
}

func classifyWith(rules []Rule, modelID string) catalog.Category {
	id := strings.ToLower(modelID)
	for _, r := range rules {
		if r.Matches(id) {
			return r.Category
		}
	}
	return DefaultCategory
}
