package catalog

// ModelDescriptor is an immutable catalog entry. Exactly one price field is set,
// chosen by the category's billing unit.
type ModelDescriptor struct {
	ID            string   `json:"id"`
	Category      Category `json:"category"`
	Provider      string   `json:"provider"`
	ContextLength *int     `json:"context_length,omitempty"`

	PricePer1kTokens *float64 `json:"price_per_1k_tokens,omitempty"`
	PricePerImage    *float64 `json:"price_per_image,omitempty"`
	PricePer1kChars  *float64 `json:"price_per_1k_chars,omitempty"`
	PricePerMinute   *float64 `json:"price_per_minute,omitempty"`
	PricePerVideo    *float64 `json:"price_per_video,omitempty"`
	PricePerPage     *float64 `json:"price_per_page,omitempty"`
	PricePerTask     *float64 `json:"price_per_task,omitempty"`

	TrainingPricePer1kTokens *float64 `json:"training_price_per_1k_tokens,omitempty"`

	LatencyMS int `json:"latency_ms"`
}

// UnitPrice returns whichever price field is set.
func (m ModelDescriptor) UnitPrice() (float64, bool) {
	for _, p := range []*float64{
		m.PricePer1kTokens, m.PricePerImage, m.PricePer1kChars, m.PricePerMinute,
		m.PricePerVideo, m.PricePerPage, m.PricePerTask,
	} {
		if p != nil {
			return *p, true
		}
	}
	return 0, false
}

func ctx(n int) *int { return &n }
func usd(v float64) *float64 { return &v }

var builtin = []ModelDescriptor{
	// llm
	{ID: "meta-llama/Llama-3-70B", Category: LLM, Provider: "Meta", ContextLength: ctx(8192), PricePer1kTokens: usd(0.0002), LatencyMS: 450},
	{ID: "meta-llama/Llama-3.1-70B", Category: LLM, Provider: "Meta", ContextLength: ctx(131072), PricePer1kTokens: usd(0.00025), LatencyMS: 480},
	{ID: "meta-llama/Llama-3.1-8B", Category: LLM, Provider: "Meta", ContextLength: ctx(131072), PricePer1kTokens: usd(0.00005), LatencyMS: 180},
	{ID: "mistralai/Mixtral-8x7B", Category: LLM, Provider: "Mistral AI", ContextLength: ctx(32768), PricePer1kTokens: usd(0.0001), LatencyMS: 320},
	{ID: "mistralai/Mixtral-8x22B", Category: LLM, Provider: "Mistral AI", ContextLength: ctx(65536), PricePer1kTokens: usd(0.00018), LatencyMS: 550},
	{ID: "mistralai/Mistral-Large", Category: LLM, Provider: "Mistral AI", ContextLength: ctx(128000), PricePer1kTokens: usd(0.0003), LatencyMS: 600},
	{ID: "qwen/Qwen-2.5-72B", Category: LLM, Provider: "Alibaba", ContextLength: ctx(131072), PricePer1kTokens: usd(0.00022), LatencyMS: 520},
	{ID: "google/Gemma-2-27B", Category: LLM, Provider: "Google", ContextLength: ctx(8192), PricePer1kTokens: usd(0.00015), LatencyMS: 380},

	// chat
	{ID: "anthropic/Claude-3-Opus", Category: Chat, Provider: "Anthropic", ContextLength: ctx(200000), PricePer1kTokens: usd(0.0006), LatencyMS: 700},
	{ID: "anthropic/Claude-3-Sonnet", Category: Chat, Provider: "Anthropic", ContextLength: ctx(200000), PricePer1kTokens: usd(0.0003), LatencyMS: 450},
	{ID: "openai/GPT-4-Turbo", Category: Chat, Provider: "OpenAI", ContextLength: ctx(128000), PricePer1kTokens: usd(0.0004), LatencyMS: 550},
	{ID: "google/Gemini-Pro", Category: Chat, Provider: "Google", ContextLength: ctx(1000000), PricePer1kTokens: usd(0.00035), LatencyMS: 400},
	{ID: "cohere/Command-R-Plus", Category: Chat, Provider: "Cohere", ContextLength: ctx(128000), PricePer1kTokens: usd(0.0002), LatencyMS: 350},

	// reasoning
	{ID: "openai/O1-Preview", Category: Reasoning, Provider: "OpenAI", ContextLength: ctx(128000), PricePer1kTokens: usd(0.0008), LatencyMS: 1200},
	{ID: "deepseek/DeepSeek-R1", Category: Reasoning, Provider: "DeepSeek", ContextLength: ctx(64000), PricePer1kTokens: usd(0.0004), LatencyMS: 800},

	// code
	{ID: "deepseek/DeepSeek-Coder-33B", Category: Code, Provider: "DeepSeek", ContextLength: ctx(16384), PricePer1kTokens: usd(0.00012), LatencyMS: 280},
	{ID: "qwen/Qwen-2.5-Coder-32B", Category: Code, Provider: "Alibaba", ContextLength: ctx(131072), PricePer1kTokens: usd(0.00015), LatencyMS: 300},
	{ID: "meta-llama/CodeLlama-70B", Category: Code, Provider: "Meta", ContextLength: ctx(16384), PricePer1kTokens: usd(0.0002), LatencyMS: 450},
	{ID: "bigcode/StarCoder2-15B", Category: Code, Provider: "BigCode", ContextLength: ctx(16384), PricePer1kTokens: usd(0.00008), LatencyMS: 220},

	// vision
	{ID: "meta-llama/Llama-3.2-90B-Vision", Category: Vision, Provider: "Meta", ContextLength: ctx(128000), PricePer1kTokens: usd(0.00035), LatencyMS: 650},
	{ID: "liuhaotian/LLaVA-1.6-34B", Category: Vision, Provider: "LMSys", ContextLength: ctx(4096), PricePer1kTokens: usd(0.00018), LatencyMS: 420},
	{ID: "qwen/Qwen-VL-Max", Category: Vision, Provider: "Alibaba", ContextLength: ctx(32768), PricePer1kTokens: usd(0.00025), LatencyMS: 480},
	{ID: "microsoft/Phi-3-Vision", Category: Vision, Provider: "Microsoft", ContextLength: ctx(128000), PricePer1kTokens: usd(0.0001), LatencyMS: 280},

	// image-gen
	{ID: "stabilityai/SDXL-1.0", Category: ImageGen, Provider: "Stability AI", PricePerImage: usd(0.002), LatencyMS: 3500},
	{ID: "stabilityai/SDXL-Turbo", Category: ImageGen, Provider: "Stability AI", PricePerImage: usd(0.001), LatencyMS: 800},
	{ID: "kandinsky/Kandinsky-3", Category: ImageGen, Provider: "Sber AI", PricePerImage: usd(0.0015), LatencyMS: 2800},
	{ID: "playground-ai/Playground-v2.5", Category: ImageGen, Provider: "Playground", PricePerImage: usd(0.0018), LatencyMS: 3200},
	{ID: "flux/FLUX.1-Pro", Category: ImageGen, Provider: "Black Forest Labs", PricePerImage: usd(0.003), LatencyMS: 4500},

	// image-edit
	{ID: "timbrooks/Instruct-Pix2Pix", Category: ImageEdit, Provider: "UC Berkeley", PricePerImage: usd(0.002), LatencyMS: 2500},
	{ID: "lllyasviel/ControlNet-SDXL", Category: ImageEdit, Provider: "lllyasviel", PricePerImage: usd(0.0025), LatencyMS: 3800},

	// tts
	{ID: "coqui/XTTS-v2", Category: TTS, Provider: "Coqui", PricePer1kChars: usd(0.015), LatencyMS: 800},
	{ID: "suno/Bark", Category: TTS, Provider: "Suno", PricePer1kChars: usd(0.012), LatencyMS: 1200},
	{ID: "elevenlabs/Eleven-Multilingual", Category: TTS, Provider: "ElevenLabs", PricePer1kChars: usd(0.024), LatencyMS: 600},

	// audio
	{ID: "openai/Whisper-Large-v3", Category: Audio, Provider: "OpenAI", PricePerMinute: usd(0.006), LatencyMS: 1500},
	{ID: "meta/SeamlessM4T", Category: Audio, Provider: "Meta", PricePerMinute: usd(0.005), LatencyMS: 1800},
	{ID: "nvidia/Canary-1B", Category: Audio, Provider: "NVIDIA", PricePerMinute: usd(0.004), LatencyMS: 1200},

	// video
	{ID: "stabilityai/Stable-Video-Diffusion", Category: Video, Provider: "Stability AI", PricePerVideo: usd(0.05), LatencyMS: 60000},
	{ID: "guoyww/AnimateDiff", Category: Video, Provider: "AnimateDiff", PricePerVideo: usd(0.04), LatencyMS: 45000},

	// embedding
	{ID: "BAAI/BGE-Large-EN", Category: Embedding, Provider: "BAAI", ContextLength: ctx(512), PricePer1kTokens: usd(0.00001), LatencyMS: 50},
	{ID: "intfloat/E5-Mistral-7B", Category: Embedding, Provider: "intfloat", ContextLength: ctx(4096), PricePer1kTokens: usd(0.00002), LatencyMS: 150},
	{ID: "nomic-ai/Nomic-Embed-v1.5", Category: Embedding, Provider: "Nomic", ContextLength: ctx(8192), PricePer1kTokens: usd(0.000015), LatencyMS: 80},

	// document
	{ID: "microsoft/LayoutLM-v3", Category: Document, Provider: "Microsoft", PricePerPage: usd(0.01), LatencyMS: 2000},
	{ID: "naver-clova/Donut", Category: Document, Provider: "Naver", PricePerPage: usd(0.008), LatencyMS: 1800},
	{ID: "microsoft/TrOCR-Large", Category: Document, Provider: "Microsoft", PricePerPage: usd(0.006), LatencyMS: 1500},
	{ID: "vikhyatk/Surya-OCR", Category: Document, Provider: "Surya", PricePerPage: usd(0.005), LatencyMS: 1200},

	// agents
	{ID: "auto-gpt/AutoGPT", Category: Agents, Provider: "AutoGPT", PricePerTask: usd(0.10), LatencyMS: 30000},
	{ID: "killian/Open-Interpreter", Category: Agents, Provider: "Open Interpreter", PricePerTask: usd(0.08), LatencyMS: 25000},

	// fine-tune
	{ID: "meta-llama/Llama-3.1-8B-FT", Category: FineTune, Provider: "Meta", ContextLength: ctx(131072), PricePer1kTokens: usd(0.00004), TrainingPricePer1kTokens: usd(0.0003), LatencyMS: 180},
	{ID: "mistralai/Mistral-7B-FT", Category: FineTune, Provider: "Mistral AI", ContextLength: ctx(32768), PricePer1kTokens: usd(0.00003), TrainingPricePer1kTokens: usd(0.00025), LatencyMS: 150},
	{ID: "microsoft/Phi-2-FT", Category: FineTune, Provider: "Microsoft", ContextLength: ctx(2048), PricePer1kTokens: usd(0.00002), TrainingPricePer1kTokens: usd(0.0002), LatencyMS: 100},
	{ID: "google/Gemma-7B-FT", Category: FineTune, Provider: "Google", ContextLength: ctx(8192), PricePer1kTokens: usd(0.00003), TrainingPricePer1kTokens: usd(0.00025), LatencyMS: 140},
}
