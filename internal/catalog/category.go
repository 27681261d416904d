package catalog

// Category is the capability class of a model. It selects the calling convention.
type Category string

const (
	LLM        Category = "llm"
	Chat       Category = "chat"
	Reasoning  Category = "reasoning"
	Code       Category = "code"
	Vision     Category = "vision"
	Multimodal Category = "multimodal"
	Agents     Category = "agents"
	FineTune   Category = "fine-tune"
	ImageGen   Category = "image-gen"
	ImageEdit  Category = "image-edit"
	TTS        Category = "tts"
	Audio      Category = "audio"
	Video      Category = "video"
	Embedding  Category = "embedding"
	Document   Category = "document"
	OCR        Category = "ocr"
)

// Categories lists every category in declaration order.
var Categories = []Category{
	LLM, Chat, Reasoning, Code, Vision, Multimodal, Agents, FineTune,
	ImageGen, ImageEdit, TTS, Audio, Video, Embedding, Document, OCR,
}

// ParseCategory returns the category named by s, or false when s is not a member.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// IsText reports whether c is served by a chat completion call.
func (c Category) IsText() bool {
	switch c {
	case LLM, Chat, Reasoning, Code, Multimodal, Vision, Agents, FineTune:
		return true
	}
	return false
}

// NeedsBinaryInput reports whether c cannot be served from a text-only request.
func (c Category) NeedsBinaryInput() bool {
	switch c {
	case ImageEdit, Audio, Document, OCR, Video:
		return true
	}
	return false
}
