package contracts

import (
	"fmt"
	"sort"
	"strings"
)

// Provider identifies a model vendor. The set is closed; see Providers.
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderAnthropic  Provider = "anthropic"
	ProviderGoogle     Provider = "google"
	ProviderGroq       Provider = "groq"
	ProviderXAI        Provider = "xai"
	ProviderOpenRouter Provider = "openrouter"
	ProviderMistral    Provider = "mistral"
	ProviderDeepSeek   Provider = "deepseek"
)

var providers = []Provider{
	ProviderOpenAI,
	ProviderAnthropic,
	ProviderGoogle,
	ProviderGroq,
	ProviderXAI,
	ProviderOpenRouter,
	ProviderMistral,
	ProviderDeepSeek,
}

// Providers returns every known provider in declaration order.
func Providers() []Provider {
	out := make([]Provider, len(providers))
	copy(out, providers)
	return out
}

// Valid reports whether p is a member of the closed provider set.
// Matching is exact: "OpenAI" is not a valid provider.
func (p Provider) Valid() bool {
	for _, known := range providers {
		if p == known {
			return true
		}
	}
	return false
}

func (p Provider) String() string { return string(p) }

// SortProviders sorts in place by name.
func SortProviders(ps []Provider) {
	sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })
}

// Tier is a named selection policy resolved against a caller's models.
type Tier string

const (
	TierCheap    Tier = "cheap"
	TierFast     Tier = "fast"
	TierSmart    Tier = "smart"
	TierBalanced Tier = "balanced"
)

var tiers = []Tier{TierCheap, TierFast, TierSmart, TierBalanced}

// Tiers returns the closed tier set.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// ParseTier matches s case-insensitively against the tier set.
func ParseTier(s string) (Tier, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, t := range tiers {
		if string(t) == norm {
			return t, true
		}
	}
	return "", false
}

// IsTier reports whether s names a tier (case-insensitive).
func IsTier(s string) bool {
	_, ok := ParseTier(s)
	return ok
}

// AccessMode selects whose credentials back a caller's requests.
type AccessMode string

const (
	// ModeBYOK means the caller supplies its own provider keys.
	ModeBYOK AccessMode = "byok"
	// ModeShared means the process fallback keys are used.
	ModeShared AccessMode = "shared"
)

// ParseAccessMode parses "byok" or "shared". Empty input defaults to shared.
func ParseAccessMode(s string) (AccessMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeShared):
		return ModeShared, nil
	case string(ModeBYOK):
		return ModeBYOK, nil
	default:
		return "", fmt.Errorf("unknown access mode %q: %w", s, ErrInvalidInput)
	}
}

// Speed is a coarse latency class.
type Speed string

const (
	SpeedFast   Speed = "fast"
	SpeedMedium Speed = "medium"
	SpeedSlow   Speed = "slow"
)

// Valid reports whether s is a known speed.
func (s Speed) Valid() bool {
	return s == SpeedFast || s == SpeedMedium || s == SpeedSlow
}

// PricingTier buckets models by average token price.
type PricingTier string

const (
	PricingLow    PricingTier = "low"
	PricingMedium PricingTier = "medium"
	PricingHigh   PricingTier = "high"
)

// ExecutionMode is the process run mode.
type ExecutionMode string

const (
	ModeProduction  ExecutionMode = "production"
	ModeDevelopment ExecutionMode = "development"
)

// ParseExecutionMode parses an execution mode. Empty input is production.
func ParseExecutionMode(s string) (ExecutionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "prod", string(ModeProduction):
		return ModeProduction, nil
	case "dev", string(ModeDevelopment):
		return ModeDevelopment, nil
	default:
		return "", fmt.Errorf("unknown execution mode %q: %w", s, ErrInvalidInput)
	}
}
