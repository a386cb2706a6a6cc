package diff

import (
	"strings"
	"testing"

	"github.com/everstacklabs/modelgate/internal/catalog"
	"github.com/everstacklabs/modelgate/internal/contracts"
	"github.com/everstacklabs/modelgate/internal/pricing"
)

func entry(id string, provider contracts.Provider, family string, in, out float64) catalog.ModelEntry {
	return catalog.ModelEntry{
		CatalogID:  id,
		Provider:   provider,
		APIModelID: catalog.ModelPart(id),
		Family:     family,
		Pricing:    catalog.Pricing{Input: in, Output: out},
		Performance: catalog.Performance{
			PricingTier: catalog.DerivePricingTier(catalog.Pricing{Input: in, Output: out}),
		},
		RuntimeEnabled: true,
	}
}

func snap(version string, models ...catalog.ModelEntry) *pricing.Snapshot {
	return &pricing.Snapshot{Version: version, Models: models}
}

func TestNewModelDetected(t *testing.T) {
	from := snap("v1", entry("openai#gpt-4o", "openai", "gpt-4o", 2.5, 10))
	to := snap("v2",
		entry("openai#gpt-4o", "openai", "gpt-4o", 2.5, 10),
		entry("openai#gpt-5", "openai", "gpt-5", 1.25, 10),
	)

	cs := Compute(from, to, Options{})

	if len(cs.Added) != 1 {
		t.Fatalf("expected 1 added model, got %d", len(cs.Added))
	}
	if cs.Added[0].ID != "openai#gpt-5" {
		t.Errorf("expected added model openai#gpt-5, got %s", cs.Added[0].ID)
	}
	if cs.Unchanged != 1 {
		t.Errorf("expected 1 unchanged, got %d", cs.Unchanged)
	}
	if cs.FromVersion != "v1" || cs.ToVersion != "v2" {
		t.Errorf("unexpected versions %s -> %s", cs.FromVersion, cs.ToVersion)
	}
}

func TestPriceChangeDetected(t *testing.T) {
	from := snap("v1", entry("openai#gpt-4o", "openai", "gpt-4o", 4, 14))
	to := snap("v2", entry("openai#gpt-4o", "openai", "gpt-4o", 2.5, 10))

	cs := Compute(from, to, Options{})

	if len(cs.Updated) != 1 {
		t.Fatalf("expected 1 updated model, got %d", len(cs.Updated))
	}
	fields := map[string]bool{}
	for _, c := range cs.Updated[0].Changes {
		fields[c.Field] = true
	}
	if !fields["pricing.input"] || !fields["pricing.output"] {
		t.Errorf("expected input and output changes, got %+v", cs.Updated[0].Changes)
	}
	if fields["performance.pricing_tier"] {
		t.Error("pricing tier should stay medium")
	}
}

func TestCachedRateAddedDetected(t *testing.T) {
	old := entry("anthropic#claude-sonnet-4", "anthropic", "claude-sonnet", 3, 15)
	cur := old.Clone()
	cached := 0.3
	cur.Pricing.CachedInput = &cached

	cs := Compute(snap("v1", old), snap("v2", cur), Options{})

	if len(cs.Updated) != 1 || len(cs.Updated[0].Changes) != 1 {
		t.Fatalf("expected a single change, got %+v", cs.Updated)
	}
	c := cs.Updated[0].Changes[0]
	if c.Field != "pricing.cached_input" || c.OldValue != nil || c.NewValue != 0.3 {
		t.Errorf("unexpected change %+v", c)
	}
}

func TestRemovedModelDetected(t *testing.T) {
	from := snap("v1",
		entry("openai#gpt-4o", "openai", "gpt-4o", 2.5, 10),
		entry("groq#llama-3.1-8b-instant", "groq", "llama", 0.05, 0.08),
	)
	to := snap("v2", entry("openai#gpt-4o", "openai", "gpt-4o", 2.5, 10))

	cs := Compute(from, to, Options{})

	if len(cs.Removed) != 1 || cs.Removed[0].ID != "groq#llama-3.1-8b-instant" {
		t.Fatalf("expected groq model removed, got %+v", cs.Removed)
	}
	if !cs.HasChanges() {
		t.Error("expected changes")
	}
	if cs.TotalChanged() != 0 {
		t.Errorf("expected 0 added+updated, got %d", cs.TotalChanged())
	}
}

func TestAvailabilityIgnoredByDefault(t *testing.T) {
	old := entry("openai#o3", "openai", "o", 2, 8)
	cur := old.Clone()
	cur.RuntimeEnabled = false

	cs := Compute(snap("v1", old), snap("v2", cur), Options{})
	if cs.HasChanges() {
		t.Errorf("expected no changes, got %+v", cs.Updated)
	}

	cs = Compute(snap("v1", old), snap("v2", cur), Options{TrackAvailability: true})
	if len(cs.Updated) != 1 || cs.Updated[0].Changes[0].Field != "runtime_enabled" {
		t.Errorf("expected runtime_enabled change, got %+v", cs.Updated)
	}
}

func TestRenameDetection(t *testing.T) {
	tests := []struct {
		name    string
		oldM    catalog.ModelEntry
		newM    catalog.ModelEntry
		renamed bool
	}{
		{
			name:    "same family similar price",
			oldM:    entry("anthropic#claude-3-5-haiku-20241022", "anthropic", "claude-haiku", 0.8, 4),
			newM:    entry("anthropic#claude-3-5-haiku-latest", "anthropic", "claude-haiku", 0.8, 4),
			renamed: true,
		},
		{
			name:    "price moved too far",
			oldM:    entry("anthropic#claude-3-5-haiku-20241022", "anthropic", "claude-haiku", 0.8, 4),
			newM:    entry("anthropic#claude-haiku-4-5", "anthropic", "claude-haiku", 1, 5),
			renamed: false,
		},
		{
			name:    "different provider",
			oldM:    entry("groq#llama-3.3-70b-versatile", "groq", "llama", 0.59, 0.79),
			newM:    entry("openrouter#meta-llama/llama-3.3-70b-instruct", "openrouter", "llama", 0.59, 0.79),
			renamed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := Compute(snap("v1", tt.oldM), snap("v2", tt.newM), Options{})
			got := len(cs.PossibleRenames) == 1
			if got != tt.renamed {
				t.Errorf("renamed = %v, want %v (%+v)", got, tt.renamed, cs.PossibleRenames)
			}
		})
	}
}

func TestResultsSortedByID(t *testing.T) {
	to := snap("v2",
		entry("openai#gpt-4o-mini", "openai", "gpt-4o", 0.15, 0.6),
		entry("deepseek#deepseek-chat", "deepseek", "deepseek", 0.27, 1.1),
	)
	cs := Compute(snap("v1"), to, Options{})

	if len(cs.Added) != 2 || cs.Added[0].ID != "deepseek#deepseek-chat" {
		t.Errorf("expected sorted additions, got %+v", cs.Added)
	}
}

func TestRenderSummary(t *testing.T) {
	from := snap("v1", entry("openai#gpt-4o", "openai", "gpt-4o", 5, 15))
	to := snap("v2", entry("openai#gpt-4o", "openai", "gpt-4o", 2.5, 10))
	out := RenderSummary(Compute(from, to, Options{}))

	for _, want := range []string{"v1 -> v2", "~ openai#gpt-4o", "pricing.input: 5 -> 2.5", "0 added, 0 removed, 1 updated"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	same := RenderSummary(Compute(from, from, Options{}))
	if !strings.Contains(same, "no changes (1 unchanged)") {
		t.Errorf("unexpected summary for identical snapshots:\n%s", same)
	}
}

func TestRenderPRBody(t *testing.T) {
	from := snap("v1", entry("openai#gpt-4o", "openai", "gpt-4o", 5, 15))
	to := snap("v2",
		entry("openai#gpt-4o", "openai", "gpt-4o", 2.5, 10),
		entry("xai#grok-3", "xai", "grok", 3, 15),
	)
	body := RenderPRBody(Compute(from, to, Options{}))

	for _, want := range []string{"## Pricing snapshot `v2`", "### Added (1)", "`xai#grok-3`", "| `openai#gpt-4o` | pricing.output | 15 | 10 |"} {
		if !strings.Contains(body, want) {
			t.Errorf("PR body missing %q:\n%s", want, body)
		}
	}
}
