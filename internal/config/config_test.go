package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/everstacklabs/modelgate/internal/catalog"
	"github.com/everstacklabs/modelgate/internal/contracts"
)

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, info := range catalog.DefaultProviders {
		t.Setenv(info.KeyEnv, "")
		t.Setenv("MODELGATE_"+strings.ToUpper(info.Name)+"_BASE_URL", "")
	}
	t.Setenv("GITHUB_TOKEN", "")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearKeyEnv(t)
	cfg, err := Load(writeConfig(t, "log_level: debug\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Mode() != contracts.ModeProduction {
		t.Errorf("Mode = %s, want production", cfg.Mode())
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level = %v, want debug", cfg.Level())
	}
	if cfg.ConstructTimeout != 30*time.Second {
		t.Errorf("ConstructTimeout = %v, want 30s", cfg.ConstructTimeout)
	}
	if cfg.GitHub.BaseBranch != "main" {
		t.Errorf("BaseBranch = %q, want main", cfg.GitHub.BaseBranch)
	}
	if cfg.CatalogPath != "" {
		t.Errorf("CatalogPath = %q, want empty (built-in)", cfg.CatalogPath)
	}
	if got := cfg.ProviderConfigs(); len(got) != 0 {
		t.Errorf("expected no configured providers, got %v", got)
	}
}

func TestFallbackCredentialsFromEnv(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("GEMINI_API_KEY", "AIza-env")

	cfg, err := Load(writeConfig(t, `
providers:
  openai:
    base_url: https://proxy.internal/v1
    max_tokens: 2048
  anthropic:
    base_url: https://anthropic.internal
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	openai, ok := cfg.Provider(contracts.ProviderOpenAI)
	if !ok {
		t.Fatal("openai should be configured")
	}
	if openai.APIKey != "sk-env" || openai.BaseURL != "https://proxy.internal/v1" || openai.MaxTokens != 2048 {
		t.Errorf("unexpected openai config %+v", openai)
	}

	google, ok := cfg.Provider(contracts.ProviderGoogle)
	if !ok || google.APIKey != "AIza-env" {
		t.Errorf("unexpected google config %+v (ok=%v)", google, ok)
	}

	groq, ok := cfg.Provider(contracts.ProviderGroq)
	if ok {
		t.Error("groq has no key and must not be configured")
	}
	if groq.BaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("groq default base url = %q", groq.BaseURL)
	}

	if _, ok := cfg.Provider(contracts.ProviderAnthropic); ok {
		t.Error("anthropic has a base url but no key")
	}

	configured := cfg.ProviderConfigs()
	if len(configured) != 2 {
		t.Errorf("expected 2 configured providers, got %d", len(configured))
	}
}

func TestCallerProfiles(t *testing.T) {
	clearKeyEnv(t)
	cfg, err := Load(writeConfig(t, `
execution_mode: development
callers:
  - caller_id: tenant-1
    mode: byok
    allowed_models: ["openai#gpt-4o", "openai#gpt-4o-mini"]
    credentials:
      openai:
        api_key: sk-tenant
  - caller_id: team-a
    allowed_models: ["groq#llama-3.3-70b-versatile"]
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Mode() != contracts.ModeDevelopment {
		t.Errorf("Mode = %s, want development", cfg.Mode())
	}

	tenant, ok := cfg.Caller("tenant-1")
	if !ok {
		t.Fatal("tenant-1 not found")
	}
	if tenant.Mode != contracts.ModeBYOK {
		t.Errorf("Mode = %q, want byok", tenant.Mode)
	}
	if len(tenant.AllowedModels) != 2 || tenant.AllowedModels[0] != "openai#gpt-4o" {
		t.Errorf("AllowedModels = %v", tenant.AllowedModels)
	}
	if tenant.Credentials[contracts.ProviderOpenAI].APIKey != "sk-tenant" {
		t.Errorf("Credentials = %+v", tenant.Credentials)
	}

	team, ok := cfg.Caller("team-a")
	if !ok || team.Mode != "" {
		t.Errorf("team-a = %+v (ok=%v); empty mode means shared", team, ok)
	}

	if _, ok := cfg.Caller("nobody"); ok {
		t.Error("unexpected caller")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad execution mode", "execution_mode: staging\n"},
		{"unknown provider", "providers:\n  cohere:\n    api_key: k\n"},
		{"caller without id", "callers:\n  - mode: shared\n"},
		{"duplicate caller", "callers:\n  - caller_id: a\n  - caller_id: a\n"},
		{"bad caller mode", "callers:\n  - caller_id: a\n    mode: tenant\n"},
		{"override without model", "overrides:\n  - input: 1\n"},
		{"override bad expiry", "overrides:\n  - model_id: openai#gpt-4o\n    expires_at: tomorrow\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearKeyEnv(t)
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, contracts.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCatalogPathMadeAbsolute(t *testing.T) {
	clearKeyEnv(t)
	cfg, err := Load(writeConfig(t, "catalog_path: ./catalog\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !filepath.IsAbs(cfg.CatalogPath) {
		t.Errorf("CatalogPath = %q, want absolute", cfg.CatalogPath)
	}
}

func TestLevelFallsBackToInfo(t *testing.T) {
	cfg := &Config{LogLevel: "chatty"}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("Level = %v, want info", cfg.Level())
	}
}

func TestPriceOverrides(t *testing.T) {
	clearKeyEnv(t)
	cfg, err := Load(writeConfig(t, `
overrides:
  - model_id: openai#gpt-4o
    input: 1.25
    reason: launch promo
    expires_at: "2026-11-01T00:00:00Z"
  - model_id: groq#llama-3.1-8b-instant
    output: 0
    active: false
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Overrides) != 2 {
		t.Fatalf("expected 2 overrides, got %d", len(cfg.Overrides))
	}

	o, err := cfg.Overrides[0].Override()
	if err != nil {
		t.Fatalf("Override: %v", err)
	}
	if o.Input == nil || *o.Input != 1.25 || o.Output != nil {
		t.Errorf("unexpected prices %+v", o)
	}
	if o.ExpiresAt == nil || !o.ExpiresAt.Equal(time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ExpiresAt = %v", o.ExpiresAt)
	}
	if !o.IsActive() {
		t.Error("override without active flag should be active")
	}

	o, err = cfg.Overrides[1].Override()
	if err != nil {
		t.Fatalf("Override: %v", err)
	}
	if o.Output == nil || *o.Output != 0 {
		t.Errorf("explicit zero output should be kept, got %v", o.Output)
	}
	if o.IsActive() {
		t.Error("active: false should be inactive")
	}
}
