package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/everstacklabs/modelgate/internal/access"
	"github.com/everstacklabs/modelgate/internal/catalog"
	"github.com/everstacklabs/modelgate/internal/contracts"
	"github.com/everstacklabs/modelgate/internal/pricing"
	"github.com/everstacklabs/modelgate/internal/provider"
)

// Config holds all configuration for modelgate.
type Config struct {
	// CatalogPath points at an on-disk catalog. Empty means the built-in one.
	CatalogPath      string                     `mapstructure:"catalog_path"`
	SnapshotDir      string                     `mapstructure:"snapshot_dir"`
	ExecutionMode    string                     `mapstructure:"execution_mode"`
	LogLevel         string                     `mapstructure:"log_level"`
	RateLimit        float64                    `mapstructure:"rate_limit"`
	RateBurst        int                        `mapstructure:"rate_burst"`
	ConstructTimeout time.Duration              `mapstructure:"construct_timeout"`
	Providers        map[string]provider.Config `mapstructure:"providers"`
	Callers          []access.CallerConfig      `mapstructure:"callers"`
	Overrides        []PriceOverride            `mapstructure:"overrides"`
	GitHub           GitHubConfig               `mapstructure:"github"`
}

// GitHubConfig holds settings for publishing snapshots to a catalog repo.
type GitHubConfig struct {
	Token      string `mapstructure:"token"`
	Owner      string `mapstructure:"owner"`
	Repo       string `mapstructure:"repo"`
	BaseBranch string `mapstructure:"base_branch"`
	RepoPath   string `mapstructure:"repo_path"`
	ArchiveDir string `mapstructure:"archive_dir"`
}

// PriceOverride is the file form of a pricing override. ExpiresAt is RFC 3339.
type PriceOverride struct {
	ModelID     string   `mapstructure:"model_id"`
	Input       *float64 `mapstructure:"input"`
	Output      *float64 `mapstructure:"output"`
	CachedInput *float64 `mapstructure:"cached_input"`
	Active      *bool    `mapstructure:"active"`
	Reason      string   `mapstructure:"reason"`
	ExpiresAt   string   `mapstructure:"expires_at"`
}

// Override converts o for the pricing service.
func (o PriceOverride) Override() (pricing.Override, error) {
	out := pricing.Override{
		ModelID:     o.ModelID,
		Input:       o.Input,
		Output:      o.Output,
		CachedInput: o.CachedInput,
		Active:      o.Active,
		Reason:      o.Reason,
	}
	if o.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, o.ExpiresAt)
		if err != nil {
			return pricing.Override{}, fmt.Errorf("override %s: expires_at: %w", o.ModelID, contracts.ErrInvalidInput)
		}
		out.ExpiresAt = &t
	}
	return out, nil
}

// Load reads configuration from file, environment, and defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("catalog_path", "")
	v.SetDefault("snapshot_dir", defaultSnapshotDir())
	v.SetDefault("execution_mode", string(contracts.ModeProduction))
	v.SetDefault("log_level", "info")
	v.SetDefault("rate_limit", 5.0)
	v.SetDefault("rate_burst", 5)
	v.SetDefault("construct_timeout", "30s")
	v.SetDefault("github.base_branch", "main")
	v.SetDefault("github.repo_path", ".")
	v.SetDefault("github.archive_dir", "pricing/snapshots")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/modelgate")
	}

	v.SetEnvPrefix("MODELGATE")
	v.AutomaticEnv()

	_ = v.BindEnv("github.token", "GITHUB_TOKEN")
	for _, info := range catalog.DefaultProviders {
		_ = v.BindEnv("providers."+info.Name+".api_key", info.KeyEnv)
		_ = v.BindEnv("providers."+info.Name+".base_url", "MODELGATE_"+strings.ToUpper(info.Name)+"_BASE_URL")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.CatalogPath != "" && !filepath.IsAbs(cfg.CatalogPath) {
		abs, err := filepath.Abs(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("resolving catalog path: %w", err)
		}
		cfg.CatalogPath = abs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enums and caller profiles.
func (c *Config) Validate() error {
	if _, err := contracts.ParseExecutionMode(c.ExecutionMode); err != nil {
		return fmt.Errorf("execution_mode: %w", err)
	}
	for name := range c.Providers {
		if !contracts.Provider(name).Valid() {
			return fmt.Errorf("providers.%s: %w: unknown provider", name, contracts.ErrInvalidInput)
		}
	}

	seen := make(map[string]bool, len(c.Callers))
	for i, caller := range c.Callers {
		if caller.CallerID == "" {
			return fmt.Errorf("callers[%d]: %w: caller_id is required", i, contracts.ErrInvalidInput)
		}
		if seen[caller.CallerID] {
			return fmt.Errorf("callers[%d]: %w: duplicate caller_id %q", i, contracts.ErrInvalidInput, caller.CallerID)
		}
		seen[caller.CallerID] = true
		if _, err := contracts.ParseAccessMode(string(caller.Mode)); err != nil {
			return fmt.Errorf("callers[%d]: %w", i, err)
		}
	}

	for i, o := range c.Overrides {
		if o.ModelID == "" {
			return fmt.Errorf("overrides[%d]: %w: model_id is required", i, contracts.ErrInvalidInput)
		}
		if _, err := o.Override(); err != nil {
			return fmt.Errorf("overrides[%d]: %w", i, err)
		}
	}
	return nil
}

// Mode returns the parsed execution mode.
func (c *Config) Mode() contracts.ExecutionMode {
	m, _ := contracts.ParseExecutionMode(c.ExecutionMode)
	return m
}

// Level maps log_level to a slog level. Unknown values fall back to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Provider builds the configuration for one provider: vendor defaults first,
// then the configured settings field by field.
func (c *Config) Provider(p contracts.Provider) (provider.Config, bool) {
	cfg := provider.Config{BaseURL: provider.DefaultBaseURLs[p]}
	set, ok := c.Providers[string(p)]
	if !ok {
		return cfg, false
	}
	cfg = cfg.Merge(set)
	return cfg, cfg.Configured()
}

// ProviderConfigs returns every provider with a fallback credential.
func (c *Config) ProviderConfigs() map[contracts.Provider]provider.Config {
	out := make(map[contracts.Provider]provider.Config)
	for _, p := range contracts.Providers() {
		if cfg, ok := c.Provider(p); ok {
			out[p] = cfg
		}
	}
	return out
}

// Caller returns the profile for id.
func (c *Config) Caller(id string) (access.CallerConfig, bool) {
	for _, caller := range c.Callers {
		if caller.CallerID == id {
			return caller, true
		}
	}
	return access.CallerConfig{}, false
}

func defaultSnapshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/modelgate-snapshots"
	}
	return filepath.Join(home, ".local", "share", "modelgate", "snapshots")
}
