// Package selector picks one model for a tier from an ordered candidate set.
// Selection is a pure function of its inputs: the same tier and the same
// candidates in the same order always yield the same model.
package selector

import (
	"fmt"

	"github.com/everstacklabs/modelgate/internal/catalog"
	"github.com/everstacklabs/modelgate/internal/contracts"
)

// minBalancedPrice keeps free models from producing an infinite balanced score.
const minBalancedPrice = 0.1

// Select returns the best candidate for tier. Ties go to the candidate seen
// first, so callers control precedence through ordering.
func Select(tier contracts.Tier, candidates []catalog.ModelEntry) (catalog.ModelEntry, error) {
	if !isKnown(tier) {
		return catalog.ModelEntry{}, fmt.Errorf("%w: %q", contracts.ErrUnknownTier, tier)
	}
	if len(candidates) == 0 {
		return catalog.ModelEntry{}, &contracts.NoModelsConfiguredError{Tier: tier}
	}

	pool := candidates
	if tier == contracts.TierFast {
		if fast := fastOnly(candidates); len(fast) > 0 {
			pool = fast
		}
	}

	best := 0
	bestScore := Score(tier, pool[0])
	for i := 1; i < len(pool); i++ {
		if s := Score(tier, pool[i]); s > bestScore {
			best, bestScore = i, s
		}
	}
	return pool[best].Clone(), nil
}

// Score rates e for tier; higher is better. Price-driven tiers negate the
// average price so every tier maximizes.
func Score(tier contracts.Tier, e catalog.ModelEntry) float64 {
	switch tier {
	case contracts.TierCheap, contracts.TierFast:
		return -e.Pricing.Average()
	case contracts.TierSmart:
		return float64(e.Performance.Intelligence)
	case contracts.TierBalanced:
		return float64(e.Performance.Intelligence) / max(e.Pricing.Average(), minBalancedPrice)
	default:
		return 0
	}
}

func fastOnly(candidates []catalog.ModelEntry) []catalog.ModelEntry {
	var out []catalog.ModelEntry
	for _, c := range candidates {
		if c.Performance.Speed == contracts.SpeedFast {
			out = append(out, c)
		}
	}
	return out
}

func isKnown(tier contracts.Tier) bool {
	for _, t := range contracts.Tiers() {
		if t == tier {
			return true
		}
	}
	return false
}
