package selector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everstacklabs/modelgate/internal/catalog"
	"github.com/everstacklabs/modelgate/internal/contracts"
)

func model(id string, in, out float64, speed contracts.Speed, intelligence int) catalog.ModelEntry {
	return catalog.ModelEntry{
		CatalogID:   id,
		Provider:    contracts.ProviderOpenAI,
		APIModelID:  catalog.ModelPart(id),
		Pricing:     catalog.Pricing{Input: in, Output: out},
		Performance: catalog.Performance{Speed: speed, Intelligence: intelligence},
	}
}

// A: avg 2.0, medium, 8. B: avg 0.3, fast, 5.
func abCandidates() []catalog.ModelEntry {
	return []catalog.ModelEntry{
		model("openai#a", 1, 3, contracts.SpeedMedium, 8),
		model("openai#b", 0.2, 0.4, contracts.SpeedFast, 5),
	}
}

func TestSelectTiers(t *testing.T) {
	tests := []struct {
		tier contracts.Tier
		want string
	}{
		{contracts.TierCheap, "openai#b"},
		{contracts.TierFast, "openai#b"},
		{contracts.TierSmart, "openai#a"},
		// A: 8/2.0 = 4, B: 5/0.3 = 16.7
		{contracts.TierBalanced, "openai#b"},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			got, err := Select(tt.tier, abCandidates())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.CatalogID)
		})
	}
}

func TestFastFallsBackToAllCandidates(t *testing.T) {
	candidates := []catalog.ModelEntry{
		model("openai#slow-pricey", 10, 30, contracts.SpeedSlow, 9),
		model("openai#medium-cheap", 0.5, 1.5, contracts.SpeedMedium, 6),
	}

	got, err := Select(contracts.TierFast, candidates)
	require.NoError(t, err)
	assert.Equal(t, "openai#medium-cheap", got.CatalogID)
}

func TestFastPrefersFastOverCheaper(t *testing.T) {
	candidates := []catalog.ModelEntry{
		model("openai#medium-cheapest", 0.01, 0.01, contracts.SpeedMedium, 3),
		model("openai#fast", 1, 1, contracts.SpeedFast, 5),
	}

	got, err := Select(contracts.TierFast, candidates)
	require.NoError(t, err)
	assert.Equal(t, "openai#fast", got.CatalogID)
}

func TestTiesGoToFirstCandidate(t *testing.T) {
	candidates := []catalog.ModelEntry{
		model("openai#first", 1, 1, contracts.SpeedFast, 7),
		model("openai#second", 1, 1, contracts.SpeedFast, 7),
	}

	for _, tier := range contracts.Tiers() {
		got, err := Select(tier, candidates)
		require.NoError(t, err)
		assert.Equal(t, "openai#first", got.CatalogID, "tier %s", tier)
	}
}

func TestBalancedFloorsFreeModels(t *testing.T) {
	free := model("openai#free", 0, 0, contracts.SpeedFast, 2)
	assert.InDelta(t, 20.0, Score(contracts.TierBalanced, free), 1e-9)

	candidates := []catalog.ModelEntry{
		free,
		// 9 / 0.4 = 22.5 beats the free model's 20
		model("openai#smart-cheap", 0.3, 0.5, contracts.SpeedMedium, 9),
	}
	got, err := Select(contracts.TierBalanced, candidates)
	require.NoError(t, err)
	assert.Equal(t, "openai#smart-cheap", got.CatalogID)
}

func TestSelectIsDeterministic(t *testing.T) {
	first, err := Select(contracts.TierBalanced, abCandidates())
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		got, err := Select(contracts.TierBalanced, abCandidates())
		require.NoError(t, err)
		assert.Equal(t, first.CatalogID, got.CatalogID)
	}
}

func TestSelectEmptyCandidates(t *testing.T) {
	_, err := Select(contracts.TierCheap, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrNoModelsConfigured))

	var nmc *contracts.NoModelsConfiguredError
	require.True(t, errors.As(err, &nmc))
	assert.Equal(t, contracts.TierCheap, nmc.Tier)
}

func TestSelectUnknownTier(t *testing.T) {
	_, err := Select(contracts.Tier("fastest"), abCandidates())
	assert.ErrorIs(t, err, contracts.ErrUnknownTier)
}

func TestSelectReturnsCopy(t *testing.T) {
	cached := 0.1
	candidates := abCandidates()
	candidates[1].Pricing.CachedInput = &cached

	got, err := Select(contracts.TierCheap, candidates)
	require.NoError(t, err)
	*got.Pricing.CachedInput = 99
	assert.Equal(t, 0.1, *candidates[1].Pricing.CachedInput)
}
