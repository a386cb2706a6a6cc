package provider

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/everstacklabs/modelgate/internal/contracts"
)

// Factory builds clients for one provider. A factory is created from the
// provider's Config and replaced whenever that Config changes.
type Factory interface {
	NewClient(ctx context.Context, apiModelID string) (Client, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(ctx context.Context, apiModelID string) (Client, error)

func (f FactoryFunc) NewClient(ctx context.Context, apiModelID string) (Client, error) {
	return f(ctx, apiModelID)
}

// Builder creates a Factory from configuration.
type Builder func(p contracts.Provider, cfg Config, hc *http.Client) (Factory, error)

// DefaultBuilder picks the vendor SDK for p.
func DefaultBuilder(p contracts.Provider, cfg Config, hc *http.Client) (Factory, error) {
	switch p {
	case contracts.ProviderOpenAI, contracts.ProviderGroq, contracts.ProviderXAI,
		contracts.ProviderOpenRouter, contracts.ProviderMistral, contracts.ProviderDeepSeek:
		return newOpenAIFactory(p, cfg, hc), nil
	case contracts.ProviderGoogle:
		return &geminiFactory{cfg: cfg, hc: hc}, nil
	case contracts.ProviderAnthropic:
		return &anthropicFactory{cfg: cfg, hc: hc}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", contracts.ErrInvalidInput, p)
	}
}

// openAIFactory shares one go-openai client across every model of a vendor.
type openAIFactory struct {
	provider  contracts.Provider
	maxTokens int
	client    *openai.Client
}

func newOpenAIFactory(p contracts.Provider, cfg Config, hc *http.Client) *openAIFactory {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.baseURL(p)
	if hc != nil {
		oc.HTTPClient = hc
	}
	return &openAIFactory{
		provider:  p,
		maxTokens: cfg.MaxTokens,
		client:    openai.NewClientWithConfig(oc),
	}
}

func (f *openAIFactory) NewClient(_ context.Context, apiModelID string) (Client, error) {
	return &OpenAIClient{
		provider:  f.provider,
		model:     apiModelID,
		maxTokens: f.maxTokens,
		client:    f.client,
	}, nil
}

type geminiFactory struct {
	cfg Config
	hc  *http.Client
}

func (f *geminiFactory) NewClient(ctx context.Context, apiModelID string) (Client, error) {
	cc := &genai.ClientConfig{
		APIKey:     f.cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: f.hc,
	}
	if f.cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: f.cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiClient{model: apiModelID, maxTokens: f.cfg.MaxTokens, client: client}, nil
}

type anthropicFactory struct {
	cfg Config
	hc  *http.Client
}

func (f *anthropicFactory) NewClient(_ context.Context, apiModelID string) (Client, error) {
	return NewAnthropicClient(f.cfg.APIKey, f.cfg.baseURL(contracts.ProviderAnthropic), apiModelID, f.cfg.MaxTokens, f.hc), nil
}
