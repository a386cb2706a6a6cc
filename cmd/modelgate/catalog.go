package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/everstacklabs/modelgate/internal/catalog"
	"github.com/everstacklabs/modelgate/internal/contracts"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the catalog (CI check)",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogPath, _ := cmd.Flags().GetString("catalog-path")
			if catalogPath == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				catalogPath = cfg.CatalogPath
			}

			entries := catalog.DefaultEntries
			if catalogPath != "" {
				var err error
				_, entries, err = catalog.LoadEntries(catalogPath)
				if err != nil {
					return fmt.Errorf("loading catalog: %w", err)
				}
			}

			result := catalog.CheckEntries(entries)
			fmt.Println(catalog.FormatResult(result))

			if result.HasErrors() {
				os.Exit(exitIntegrity)
			}
			return nil
		},
	}

	cmd.Flags().String("catalog-path", "", "Path to model catalog (default: from config, else built-in)")

	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print catalog statistics as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			return printJSON(cat.Stats())
		},
	}
}

func modelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List catalog entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			providerName, _ := cmd.Flags().GetString("provider")
			runtime, _ := cmd.Flags().GetBool("runtime")
			visible, _ := cmd.Flags().GetBool("visible")

			var entries []catalog.ModelEntry
			switch {
			case providerName != "":
				p := contracts.Provider(providerName)
				if !p.Valid() {
					return fmt.Errorf("%w: unknown provider %q", contracts.ErrInvalidInput, providerName)
				}
				entries = cat.ListByProvider(p)
			case runtime:
				entries = cat.ListRuntimeEnabled()
			case visible:
				entries = cat.ListVisible()
			default:
				entries = cat.All()
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CATALOG ID\tAPI MODEL ID\tIN\tOUT\tTIER\tSPEED\tIQ\tRUNTIME")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%s\t%s\t%d\t%v\n",
					e.CatalogID, e.APIModelID, e.Pricing.Input, e.Pricing.Output,
					e.Performance.PricingTier, e.Performance.Speed, e.Performance.Intelligence, e.RuntimeEnabled)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Printf("\nTotal: %d models\n", len(entries))
			return nil
		},
	}

	cmd.Flags().String("provider", "", "Only list this provider")
	cmd.Flags().Bool("runtime", false, "Only list runtime-enabled models")
	cmd.Flags().Bool("visible", false, "Only list models not hidden from UIs")

	return cmd
}

func manifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Regenerate manifest.yaml for an on-disk catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if p, _ := cmd.Flags().GetString("catalog-path"); p != "" {
				cfg.CatalogPath = p
			}
			if cfg.CatalogPath == "" {
				return fmt.Errorf("%w: manifest needs an on-disk catalog (--catalog-path)", contracts.ErrInvalidInput)
			}

			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			m, err := catalog.GenerateManifest(cfg.CatalogPath, cat)
			if err != nil {
				return err
			}
			slog.Info("manifest written", "path", cfg.CatalogPath, "total", m.Stats.Total)
			return nil
		},
	}

	cmd.Flags().String("catalog-path", "", "Path to model catalog (default: from config)")

	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Write the catalog to the on-disk YAML layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			dir := args[0]
			w := catalog.NewWriter(dir)
			if err := w.WriteVersion(cat.Version()); err != nil {
				return err
			}

			for _, info := range catalog.DefaultProviders {
				if len(cat.ListByProvider(contracts.Provider(info.Name))) == 0 {
					continue
				}
				if err := w.WriteProvider(info); err != nil {
					return err
				}
			}

			created, updated := 0, 0
			for _, e := range cat.All() {
				res, err := w.WriteEntry(e)
				if err != nil {
					return err
				}
				switch {
				case res.IsNew:
					created++
				case len(res.Changes) > 0:
					updated++
				}
			}

			if _, err := catalog.GenerateManifest(dir, cat); err != nil {
				return err
			}
			slog.Info("catalog exported", "dir", dir, "created", created, "updated", updated)
			return nil
		},
	}
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
