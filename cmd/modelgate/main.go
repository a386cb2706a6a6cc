package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/everstacklabs/modelgate/internal/catalog"
	"github.com/everstacklabs/modelgate/internal/config"
	"github.com/everstacklabs/modelgate/internal/httpclient"
	"github.com/everstacklabs/modelgate/internal/pricing"
	"github.com/everstacklabs/modelgate/internal/provider"
)

const (
	exitIntegrity = 1
	exitChanges   = 2 // snapshot diff found changes
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:          "modelgate",
		Short:        "Multi-provider model catalog and resolution registry",
		Long:         "Validates the model catalog, resolves tiers and models per caller, prices requests and archives pricing snapshots.",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	rootCmd.AddCommand(
		validateCmd(),
		statsCmd(),
		modelsCmd(),
		manifestCmd(),
		exportCmd(),
		resolveCmd(),
		costCmd(),
		snapshotCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))
	return cfg, nil
}

// loadCatalog opens the configured catalog, or the built-in one when no
// catalog path is set.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	opts := []catalog.Option{catalog.WithExecutionMode(cfg.Mode()), catalog.WithLogger(slog.Default())}
	if cfg.CatalogPath == "" {
		return catalog.Builtin(opts...)
	}
	cat, err := catalog.Load(cfg.CatalogPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return cat, nil
}

// newPricing builds the pricing service with configured overrides applied.
func newPricing(cfg *config.Config, cat *catalog.Catalog) (*pricing.Service, error) {
	svc := pricing.NewService(cat, pricing.WithLogger(slog.Default()))
	for _, po := range cfg.Overrides {
		o, err := po.Override()
		if err != nil {
			return nil, err
		}
		if err := svc.SetOverride(o); err != nil {
			return nil, fmt.Errorf("applying override: %w", err)
		}
	}
	return svc, nil
}

func registryOptions(cfg *config.Config) []provider.Option {
	hc := httpclient.New(
		httpclient.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		httpclient.WithUserAgent("modelgate"),
	)
	return []provider.Option{
		provider.WithHTTPClient(hc),
		provider.WithConstructTimeout(cfg.ConstructTimeout),
		provider.WithLogger(slog.Default()),
	}
}

func openStore(cfg *config.Config) (*pricing.FileStore, error) {
	return pricing.NewFileStore(cfg.SnapshotDir)
}
