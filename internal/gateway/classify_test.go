package gateway

import (
	"testing"

	"github.com/nulzo/inference-gateway/internal/catalog"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		id   string
		want catalog.Category
	}{
		{"tts-1-hd", catalog.TTS},
		{"elevenlabs/Eleven-Multilingual", catalog.TTS},
		{"coqui/XTTS-v2", catalog.TTS},
		{"openai/Whisper-Large-v3", catalog.Audio},
		{"sdxl-turbo", catalog.ImageGen},
		{"flux/FLUX.1-Pro", catalog.ImageGen},
		{"timbrooks/Instruct-Pix2Pix", catalog.ImageEdit},
		{"stabilityai/Stable-Video-Diffusion", catalog.Video},
		{"BAAI/BGE-Large-EN", catalog.Embedding},
		{"vikhyatk/Surya-OCR", catalog.Document},
		{"llama-3.1-70b", catalog.LLM},
		{"gpt-4-turbo", catalog.Chat},
		{"deepseek-r1", catalog.Reasoning},
		{"bigcode/StarCoder2-15B", catalog.Code},
		{"llava-1.6-34b", catalog.Vision},
		{"killian/Open-Interpreter", catalog.Agents},
		{"microsoft/Phi-2-FT", catalog.FineTune},
		{"totally-unknown-model", catalog.Chat},
		{"", catalog.Chat},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.id))
		})
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// matches both the tts and chat families
	assert.Equal(t, catalog.TTS, Classify("gpt-tts"))
	// matches both the code and vision families
	assert.Equal(t, catalog.Code, Classify("llava-coder"))
	// "deepseek" sits in the reasoning rule above code
	assert.Equal(t, catalog.Reasoning, Classify("deepseek-coder-33b"))
	// ids never error, overlapping ones included
	assert.Equal(t, catalog.LLM, Classify("qwen-vl-max"))
}

func TestClassify_Deterministic(t *testing.T) {
	for _, id := range []string{"LLAMA-3.1-70B", "mixed/Case-Whisper", "o1-preview"} {
		first := Classify(id)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Classify(id))
		}
	}
}

func TestClassifyWith_CustomRules(t *testing.T) {
	rules := []Rule{
		{Category: catalog.Vision, Patterns: []string{"x"}},
		{Category: catalog.Code, Patterns: []string{"x"}},
	}
	assert.Equal(t, catalog.Vision, classifyWith(rules, "X-model"))
	assert.Equal(t, DefaultCategory, classifyWith(rules, "none"))
}

func TestClassify_CoversCatalog(t *testing.T) {
	for _, m := range catalog.New().All() {
		got := Classify(m.ID)
		_, known := catalog.ParseCategory(string(got))
		assert.True(t, known, m.ID)
	}
}
