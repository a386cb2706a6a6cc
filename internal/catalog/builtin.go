package catalog

import "github.com/everstacklabs/modelgate/internal/contracts"

// BuiltinVersion labels the compiled-in catalog.
const BuiltinVersion = "2026.10.1"

func rate(v float64) *float64 { return &v }

// DefaultProviders describes every provider in the closed set.
var DefaultProviders = []ProviderInfo{
	{Name: "openai", DisplayName: "OpenAI", KeyEnv: "OPENAI_API_KEY"},
	{Name: "anthropic", DisplayName: "Anthropic", KeyEnv: "ANTHROPIC_API_KEY"},
	{Name: "google", DisplayName: "Google GenAI", KeyEnv: "GEMINI_API_KEY"},
	{Name: "groq", DisplayName: "Groq", KeyEnv: "GROQ_API_KEY"},
	{Name: "xai", DisplayName: "xAI", KeyEnv: "XAI_API_KEY"},
	{Name: "openrouter", DisplayName: "OpenRouter", KeyEnv: "OPENROUTER_API_KEY"},
	{Name: "mistral", DisplayName: "Mistral", KeyEnv: "MISTRAL_API_KEY"},
	{Name: "deepseek", DisplayName: "DeepSeek", KeyEnv: "DEEPSEEK_API_KEY"},
}

// DefaultEntries is the compiled-in catalog. Prices are USD per 1M tokens.
var DefaultEntries = []ModelEntry{
	// OpenAI
	{
		CatalogID: "openai#gpt-4o", Provider: contracts.ProviderOpenAI, APIModelID: "gpt-4o",
		DisplayName: "GPT-4o", Family: "gpt-4o",
		Pricing:        Pricing{Input: 2.5, Output: 10, CachedInput: rate(1.25)},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, Vision: true, ContextLength: 128000},
		Performance:    Performance{Speed: contracts.SpeedMedium, Intelligence: 8},
		RuntimeEnabled: true,
	},
	{
		CatalogID: "openai#gpt-4o-mini", Provider: contracts.ProviderOpenAI, APIModelID: "gpt-4o-mini",
		DisplayName: "GPT-4o mini", Family: "gpt-4o",
		Pricing:        Pricing{Input: 0.15, Output: 0.6, CachedInput: rate(0.075)},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, Vision: true, ContextLength: 128000},
		Performance:    Performance{Speed: contracts.SpeedFast, Intelligence: 6},
		RuntimeEnabled: true,
	},
	{
		CatalogID: "openai#gpt-4.1", Provider: contracts.ProviderOpenAI, APIModelID: "gpt-4.1",
		DisplayName: "GPT-4.1", Family: "gpt-4.1",
		Pricing:        Pricing{Input: 2, Output: 8, CachedInput: rate(0.5)},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, Vision: true, ContextLength: 1047576},
		Performance:    Performance{Speed: contracts.SpeedMedium, Intelligence: 8},
		RuntimeEnabled: true,
	},
	{
		CatalogID: "openai#gpt-4.1-nano", Provider: contracts.ProviderOpenAI, APIModelID: "gpt-4.1-nano",
		DisplayName: "GPT-4.1 nano", Family: "gpt-4.1",
		Pricing:        Pricing{Input: 0.1, Output: 0.4, CachedInput: rate(0.025)},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, Vision: true, ContextLength: 1047576},
		Performance:    Performance{Speed: contracts.SpeedFast, Intelligence: 5},
		RuntimeEnabled: true,
	},
	{
		CatalogID: "openai#o3", Provider: contracts.ProviderOpenAI, APIModelID: "o3",
		DisplayName: "o3", Family: "o-series",
		Pricing:        Pricing{Input: 2, Output: 8, CachedInput: rate(0.5)},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, Vision: true, Reasoning: true, ContextLength: 200000},
		Performance:    Performance{Speed: contracts.SpeedSlow, Intelligence: 9},
		RuntimeEnabled: true,
	},
	{
		CatalogID: "openai#gpt-4o-audio-preview", Provider: contracts.ProviderOpenAI, APIModelID: "gpt-4o-audio-preview",
		DisplayName: "GPT-4o Audio (preview)", Family: "gpt-4o",
		Pricing:      Pricing{Input: 2.5, Output: 10},
		Capabilities: Capabilities{Tools: true, Streaming: true, Audio: true, ContextLength: 128000},
		Performance:  Performance{Speed: contracts.SpeedMedium, Intelligence: 7},
		UIHidden:     true,
	},

	// Anthropic
	{
		CatalogID: "anthropic#claude-sonnet-4", Provider: contracts.ProviderAnthropic, APIModelID: "claude-sonnet-4-20250514",
		DisplayName: "Claude Sonnet 4", Family: "claude-4",
		Pricing:        Pricing{Input: 3, Output: 15, CachedInput: rate(0.3)},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, Vision: true, Reasoning: true, ContextLength: 200000},
		Performance:    Performance{Speed: contracts.SpeedMedium, Intelligence: 9},
		RuntimeEnabled: true,
	},
	{
		CatalogID: "anthropic#claude-opus-4", Provider: contracts.ProviderAnthropic, APIModelID: "claude-opus-4-20250514",
		DisplayName: "Claude Opus 4", Family: "claude-4",
		Pricing:        Pricing{Input: 15, Output: 75, CachedInput: rate(1.5)},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, Vision: true, Reasoning: true, ContextLength: 200000},
		Performance:    Performance{Speed: contracts.SpeedSlow, Intelligence: 10},
		RuntimeEnabled: true,
	},
	{
		CatalogID: "anthropic#claude-3-5-haiku", Provider: contracts.ProviderAnthropic, APIModelID: "claude-3-5-haiku-20241022",
		DisplayName: "Claude 3.5 Haiku", Family: "claude-3.5",
		Pricing:        Pricing{Input: 0.8, Output: 4, CachedInput: rate(0.08)},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, Vision: true, ContextLength: 200000},
		Performance:    Performance{Speed: contracts.SpeedFast, Intelligence: 6},
		RuntimeEnabled: true,
	},

	// Google
	{
		CatalogID: "google#gemini-2.5-pro", Provider: contracts.ProviderGoogle, APIModelID: "gemini-2.5-pro",
		DisplayName: "Gemini 2.5 Pro", Family: "gemini-2.5",
		Pricing:        Pricing{Input: 1.25, Output: 10, CachedInput: rate(0.31)},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, Vision: true, Reasoning: true, Audio: true, Video: true, ContextLength: 1048576},
		Performance:    Performance{Speed: contracts.SpeedMedium, Intelligence: 9},
		RuntimeEnabled: true,
	},
	{
		CatalogID: "google#gemini-2.5-flash", Provider: contracts.ProviderGoogle, APIModelID: "gemini-2.5-flash",
		DisplayName: "Gemini 2.5 Flash", Family: "gemini-2.5",
		Pricing:        Pricing{Input: 0.3, Output: 2.5, CachedInput: rate(0.075)},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, Vision: true, Reasoning: true, Audio: true, Video: true, ContextLength: 1048576},
		Performance:    Performance{Speed: contracts.SpeedFast, Intelligence: 7},
		RuntimeEnabled: true,
	},
	{
		CatalogID: "google#gemini-2.0-flash-lite", Provider: contracts.ProviderGoogle, APIModelID: "gemini-2.0-flash-lite",
		DisplayName: "Gemini 2.0 Flash-Lite", Family: "gemini-2.0",
		Pricing:        Pricing{Input: 0.075, Output: 0.3},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, Vision: true, ContextLength: 1048576},
		Performance:    Performance{Speed: contracts.SpeedFast, Intelligence: 5},
		RuntimeEnabled: true,
	},

	// Groq
	{
		CatalogID: "groq#llama-3.3-70b-versatile", Provider: contracts.ProviderGroq, APIModelID: "llama-3.3-70b-versatile",
		DisplayName: "Llama 3.3 70B (Groq)", Family: "llama-3.3",
		Pricing:        Pricing{Input: 0.59, Output: 0.79},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, ContextLength: 131072},
		Performance:    Performance{Speed: contracts.SpeedFast, Intelligence: 6},
		RuntimeEnabled: true,
	},
	{
		CatalogID: "groq#llama-3.1-8b-instant", Provider: contracts.ProviderGroq, APIModelID: "llama-3.1-8b-instant",
		DisplayName: "Llama 3.1 8B Instant (Groq)", Family: "llama-3.1",
		Pricing:        Pricing{Input: 0.05, Output: 0.08},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, ContextLength: 131072},
		Performance:    Performance{Speed: contracts.SpeedFast, Intelligence: 3},
		RuntimeEnabled: true,
	},

	// xAI
	{
		CatalogID: "xai#grok-3", Provider: contracts.ProviderXAI, APIModelID: "grok-3",
		DisplayName: "Grok 3", Family: "grok-3",
		Pricing:        Pricing{Input: 3, Output: 15, CachedInput: rate(0.75)},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, ContextLength: 131072},
		Performance:    Performance{Speed: contracts.SpeedMedium, Intelligence: 8},
		RuntimeEnabled: true,
	},
	{
		CatalogID: "xai#grok-3-mini", Provider: contracts.ProviderXAI, APIModelID: "grok-3-mini",
		DisplayName: "Grok 3 Mini", Family: "grok-3",
		Pricing:        Pricing{Input: 0.3, Output: 0.5, CachedInput: rate(0.075)},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, Reasoning: true, ContextLength: 131072},
		Performance:    Performance{Speed: contracts.SpeedFast, Intelligence: 6},
		RuntimeEnabled: true,
	},

	// OpenRouter: api_model_id carries a nested vendor path.
	{
		CatalogID: "openrouter#meta-llama/llama-3.3-70b-instruct", Provider: contracts.ProviderOpenRouter,
		APIModelID: "meta-llama/llama-3.3-70b-instruct", DisplayName: "Llama 3.3 70B (OpenRouter)", Family: "llama-3.3",
		Pricing:        Pricing{Input: 0.13, Output: 0.4},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, ContextLength: 131072},
		Performance:    Performance{Speed: contracts.SpeedMedium, Intelligence: 6},
		RuntimeEnabled: true,
	},
	{
		CatalogID: "openrouter#qwen/qwen3-235b-a22b", Provider: contracts.ProviderOpenRouter,
		APIModelID: "qwen/qwen3-235b-a22b", DisplayName: "Qwen3 235B A22B (OpenRouter)", Family: "qwen3",
		Pricing:        Pricing{Input: 0.13, Output: 0.6},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, Reasoning: true, ContextLength: 40960},
		Performance:    Performance{Speed: contracts.SpeedSlow, Intelligence: 7},
		RuntimeEnabled: false,
	},

	// Mistral
	{
		CatalogID: "mistral#mistral-large-latest", Provider: contracts.ProviderMistral, APIModelID: "mistral-large-latest",
		DisplayName: "Mistral Large", Family: "mistral-large",
		Pricing:        Pricing{Input: 2, Output: 6},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, ContextLength: 131072},
		Performance:    Performance{Speed: contracts.SpeedMedium, Intelligence: 7},
		RuntimeEnabled: true,
	},
	{
		CatalogID: "mistral#mistral-small-latest", Provider: contracts.ProviderMistral, APIModelID: "mistral-small-latest",
		DisplayName: "Mistral Small", Family: "mistral-small",
		Pricing:        Pricing{Input: 0.1, Output: 0.3},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, Vision: true, ContextLength: 131072},
		Performance:    Performance{Speed: contracts.SpeedFast, Intelligence: 5},
		RuntimeEnabled: true,
	},

	// DeepSeek
	{
		CatalogID: "deepseek#deepseek-chat", Provider: contracts.ProviderDeepSeek, APIModelID: "deepseek-chat",
		DisplayName: "DeepSeek V3", Family: "deepseek-v3",
		Pricing:        Pricing{Input: 0.27, Output: 1.1, CachedInput: rate(0.07)},
		Capabilities:   Capabilities{Tools: true, JSONMode: true, Streaming: true, ContextLength: 65536},
		Performance:    Performance{Speed: contracts.SpeedMedium, Intelligence: 7},
		RuntimeEnabled: true,
	},
	{
		CatalogID: "deepseek#deepseek-reasoner", Provider: contracts.ProviderDeepSeek, APIModelID: "deepseek-reasoner",
		DisplayName: "DeepSeek R1", Family: "deepseek-r1",
		Pricing:        Pricing{Input: 0.55, Output: 2.19, CachedInput: rate(0.14)},
		Capabilities:   Capabilities{JSONMode: true, Streaming: true, Reasoning: true, ContextLength: 65536},
		Performance:    Performance{Speed: contracts.SpeedSlow, Intelligence: 8},
		RuntimeEnabled: true,
	},
}

// Builtin builds a catalog from DefaultEntries.
func Builtin(opts ...Option) (*Catalog, error) {
	return New(DefaultEntries, append([]Option{WithVersion(BuiltinVersion)}, opts...)...)
}
