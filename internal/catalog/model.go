package catalog

import (
	"strings"

	"github.com/everstacklabs/modelgate/internal/contracts"
)

// ModelEntry is one (provider, model) row. Field names and tags are the
// schema other layers persist, so changing them is a breaking change.
type ModelEntry struct {
	CatalogID      string             `yaml:"catalog_id" json:"catalog_id"`
	Provider       contracts.Provider `yaml:"provider" json:"provider"`
	APIModelID     string             `yaml:"api_model_id" json:"api_model_id"`
	DisplayName    string             `yaml:"display_name,omitempty" json:"display_name,omitempty"`
	Family         string             `yaml:"family,omitempty" json:"family,omitempty"`
	Pricing        Pricing            `yaml:"pricing" json:"pricing"`
	Capabilities   Capabilities       `yaml:"capabilities" json:"capabilities"`
	Performance    Performance        `yaml:"performance" json:"performance"`
	RuntimeEnabled bool               `yaml:"runtime_enabled" json:"runtime_enabled"`
	UIHidden       bool               `yaml:"ui_hidden" json:"ui_hidden"`
}

// Pricing is USD per 1M tokens. A nil CachedInput means the model has no
// cached-input rate; it does not mean cached input is free.
type Pricing struct {
	Input       float64  `yaml:"input" json:"input"`
	Output      float64  `yaml:"output" json:"output"`
	CachedInput *float64 `yaml:"cached_input,omitempty" json:"cached_input,omitempty"`
}

// Average returns (input + output) / 2.
func (p Pricing) Average() float64 {
	return (p.Input + p.Output) / 2
}

// HasCachedRate reports whether a cached-input rate is set.
func (p Pricing) HasCachedRate() bool {
	return p.CachedInput != nil
}

func (p Pricing) clone() Pricing {
	out := p
	if p.CachedInput != nil {
		v := *p.CachedInput
		out.CachedInput = &v
	}
	return out
}

// Capabilities lists feature flags and the context window.
type Capabilities struct {
	Tools         bool `yaml:"tools" json:"tools"`
	JSONMode      bool `yaml:"json_mode" json:"json_mode"`
	Streaming     bool `yaml:"streaming" json:"streaming"`
	Vision        bool `yaml:"vision" json:"vision"`
	Reasoning     bool `yaml:"reasoning" json:"reasoning"`
	Audio         bool `yaml:"audio" json:"audio"`
	Video         bool `yaml:"video" json:"video"`
	ContextLength int  `yaml:"context_length" json:"context_length"`
}

// Performance holds selection-relevant attributes. PricingTier is derived
// from Pricing when the catalog is built.
type Performance struct {
	Speed        contracts.Speed       `yaml:"speed" json:"speed"`
	Intelligence int                   `yaml:"intelligence" json:"intelligence"`
	PricingTier  contracts.PricingTier `yaml:"pricing_tier,omitempty" json:"pricing_tier,omitempty"`
}

// Clone returns a deep copy.
func (e ModelEntry) Clone() ModelEntry {
	out := e
	out.Pricing = e.Pricing.clone()
	return out
}

// Price thresholds on the average of input and output, USD per 1M tokens.
const (
	lowPriceCeiling    = 1.0
	mediumPriceCeiling = 10.0
)

// DerivePricingTier buckets a model by its average price.
func DerivePricingTier(p Pricing) contracts.PricingTier {
	avg := p.Average()
	switch {
	case avg < lowPriceCeiling:
		return contracts.PricingLow
	case avg < mediumPriceCeiling:
		return contracts.PricingMedium
	default:
		return contracts.PricingHigh
	}
}

// IDSeparator separates provider and model in a catalog id.
const IDSeparator = "#"

// MakeID builds a catalog id from its parts.
func MakeID(provider contracts.Provider, model string) string {
	return string(provider) + IDSeparator + model
}

// ModelPart returns what follows the separator. Used for alias matching and
// file names only; the provider always comes from ModelEntry.Provider.
func ModelPart(catalogID string) string {
	_, model, ok := strings.Cut(catalogID, IDSeparator)
	if !ok {
		return catalogID
	}
	return model
}

// ProviderInfo is a provider.yaml file in the on-disk layout.
type ProviderInfo struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
	KeyEnv      string `yaml:"key_env,omitempty"`
}
