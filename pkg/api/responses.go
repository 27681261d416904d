package api

// Object tags for InferenceResponse.
const (
	ObjectChatCompletion = "chat.completion"
	ObjectImage          = "image.generation"
	ObjectEmbedding      = "embedding"
	ObjectSpeech         = "audio.speech"
	ObjectUnsupported    = "inference.unsupported"
)

// NoResponsePlaceholder replaces missing completion content.
const NoResponsePlaceholder = "No response generated"

// InferenceResponse is the outward contract of /inference. Only the fields of
// the variant named by Object are populated.
type InferenceResponse struct {
	ID       string `json:"id"`
	Object   string `json:"object"`
	Created  int64  `json:"created"`
	Model    string `json:"model"`
	Category string `json:"category"`

	Choices []Choice `json:"choices,omitempty"`
	Usage   *Usage   `json:"usage,omitempty"`

	Data []ImageData `json:"data,omitempty"`

	Embedding  []float64 `json:"embedding,omitempty"`
	Dimensions int       `json:"dimensions,omitempty"`

	Audio       string `json:"audio,omitempty"`
	AudioFormat string `json:"audio_format,omitempty"`
	Voice       string `json:"voice,omitempty"`

	Note string `json:"note,omitempty"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      OutputMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type OutputMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Reasoning string `json:"reasoning,omitempty"`
}

type Usage struct {
	PromptTokens     int  `json:"prompt_tokens"`
	CompletionTokens int  `json:"completion_tokens"`
	TotalTokens      int  `json:"total_tokens"`
	Estimated        bool `json:"estimated,omitempty"`
}

type ImageData struct {
	URL           string `json:"url"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// ModelInferenceResponse is the flatter shape returned by /model-inference.
type ModelInferenceResponse struct {
	Response    string    `json:"response"`
	Reasoning   string    `json:"reasoning,omitempty"`
	Model       string    `json:"model"`
	Category    string    `json:"category"`
	Usage       *Usage    `json:"usage,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Embedding   []float64 `json:"embedding,omitempty"`
	Dimensions  int       `json:"dimensions,omitempty"`
	Audio       string    `json:"audio,omitempty"`
	AudioFormat string    `json:"audio_format,omitempty"`
	Note        string    `json:"note,omitempty"`
}
