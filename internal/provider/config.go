package provider

import (
	"time"

	"github.com/everstacklabs/modelgate/internal/contracts"
)

// Config is the per-provider connection settings a registry is built from.
type Config struct {
	APIKey    string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	BaseURL   string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens,omitempty"`
	// Timeout overrides the shared HTTP client timeout for this provider.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"`
}

// Merge returns c with every non-zero field of patch applied.
func (c Config) Merge(patch Config) Config {
	if patch.APIKey != "" {
		c.APIKey = patch.APIKey
	}
	if patch.BaseURL != "" {
		c.BaseURL = patch.BaseURL
	}
	if patch.MaxTokens > 0 {
		c.MaxTokens = patch.MaxTokens
	}
	if patch.Timeout > 0 {
		c.Timeout = patch.Timeout
	}
	return c
}

// Configured reports whether c carries a credential.
func (c Config) Configured() bool {
	return c.APIKey != ""
}

// DefaultBaseURLs are the vendor endpoints used when Config.BaseURL is empty.
// Google is absent: the genai SDK owns its endpoint.
var DefaultBaseURLs = map[contracts.Provider]string{
	contracts.ProviderOpenAI:     "https://api.openai.com/v1",
	contracts.ProviderAnthropic:  "https://api.anthropic.com",
	contracts.ProviderGroq:       "https://api.groq.com/openai/v1",
	contracts.ProviderXAI:        "https://api.x.ai/v1",
	contracts.ProviderOpenRouter: "https://openrouter.ai/api/v1",
	contracts.ProviderMistral:    "https://api.mistral.ai/v1",
	contracts.ProviderDeepSeek:   "https://api.deepseek.com/v1",
}

func (c Config) baseURL(p contracts.Provider) string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURLs[p]
}
