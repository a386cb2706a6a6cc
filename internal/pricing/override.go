package pricing

import (
	"fmt"
	"time"

	"github.com/everstacklabs/modelgate/internal/catalog"
	"github.com/everstacklabs/modelgate/internal/contracts"
)

// Override is a sparse pricing patch for one model. Nil fields keep the
// catalog value. An override past ExpiresAt is dropped on the next read.
type Override struct {
	ModelID     string     `yaml:"model_id" json:"model_id"`
	Input       *float64   `yaml:"input,omitempty" json:"input,omitempty"`
	Output      *float64   `yaml:"output,omitempty" json:"output,omitempty"`
	CachedInput *float64   `yaml:"cached_input,omitempty" json:"cached_input,omitempty"`
	Active      *bool      `yaml:"active,omitempty" json:"active,omitempty"`
	Reason      string     `yaml:"reason,omitempty" json:"reason,omitempty"`
	ExpiresAt   *time.Time `yaml:"expires_at,omitempty" json:"expires_at,omitempty"`
}

// IsActive reports whether the override should be applied. Unset means active.
func (o Override) IsActive() bool {
	return o.Active == nil || *o.Active
}

// Expired reports whether now is past ExpiresAt.
func (o Override) Expired(now time.Time) bool {
	return o.ExpiresAt != nil && now.After(*o.ExpiresAt)
}

func (o Override) validate() error {
	if o.ModelID == "" {
		return fmt.Errorf("override model_id is empty: %w", contracts.ErrInvalidInput)
	}
	fields := []struct {
		name string
		v    *float64
	}{{"input", o.Input}, {"output", o.Output}, {"cached_input", o.CachedInput}}
	for _, f := range fields {
		if f.v != nil && *f.v < 0 {
			return fmt.Errorf("override %s for %s is negative: %w", f.name, o.ModelID, contracts.ErrInvalidInput)
		}
	}
	return nil
}

func (o Override) apply(e catalog.ModelEntry) catalog.ModelEntry {
	if o.Input != nil {
		e.Pricing.Input = *o.Input
	}
	if o.Output != nil {
		e.Pricing.Output = *o.Output
	}
	if o.CachedInput != nil {
		v := *o.CachedInput
		e.Pricing.CachedInput = &v
	}
	e.Performance.PricingTier = catalog.DerivePricingTier(e.Pricing)
	return e
}

func (o Override) clone() Override {
	out := o
	out.Input = clonePtr(o.Input)
	out.Output = clonePtr(o.Output)
	out.CachedInput = clonePtr(o.CachedInput)
	out.Active = clonePtr(o.Active)
	out.ExpiresAt = clonePtr(o.ExpiresAt)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
