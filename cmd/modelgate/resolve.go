package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/everstacklabs/modelgate/internal/access"
	"github.com/everstacklabs/modelgate/internal/contracts"
	"github.com/everstacklabs/modelgate/internal/provider"
)

func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <tier|model|tier:name|model:name>",
		Short: "Resolve a tier or model for a caller",
		Long: "Resolves a reference against a caller's allow-list. Without --caller, a shared\n" +
			"caller allowed every runtime-enabled model is used.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			callerID, _ := cmd.Flags().GetString("caller")
			caller, ok := cfg.Caller(callerID)
			switch {
			case callerID == "":
				caller = access.CallerConfig{CallerID: "cli", Mode: contracts.ModeShared}
				for _, e := range cat.ListRuntimeEnabled() {
					caller.AllowedModels = append(caller.AllowedModels, e.CatalogID)
				}
			case !ok:
				return fmt.Errorf("%w: unknown caller %q", contracts.ErrInvalidInput, callerID)
			}

			regOpts := registryOptions(cfg)
			shared, err := provider.NewRegistry(cfg.ProviderConfigs(), regOpts...)
			if err != nil {
				return err
			}

			gate, err := access.New(cat, caller,
				access.WithSharedRegistry(shared),
				access.WithRegistryOptions(regOpts...),
				access.WithLogger(slog.Default()),
			)
			if err != nil {
				return err
			}

			resolved, err := gate.ResolveString(args[0])
			if err != nil {
				return err
			}

			prompt, _ := cmd.Flags().GetString("prompt")
			if prompt == "" {
				return printJSON(resolved)
			}

			client, err := gate.Instantiate(cmd.Context(), resolved)
			if err != nil {
				return err
			}
			reply, err := client.Complete(cmd.Context(), "", prompt)
			if err != nil {
				return err
			}
			fmt.Println(reply)
			return nil
		},
	}

	cmd.Flags().String("caller", "", "Caller profile id from config")
	cmd.Flags().String("prompt", "", "Instantiate the resolved model and send this prompt")

	return cmd
}

func costCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cost <catalog-id>",
		Short: "Price a request in USD",
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
			svc, err := newPricing(cfg, cat)
			if err != nil {
				return err
			}

			in, _ := cmd.Flags().GetInt64("input")
			out, _ := cmd.Flags().GetInt64("output")
			cached, _ := cmd.Flags().GetInt64("cached")

			usd, ok := svc.CalculateCost(args[0], in, out, cached)
			if !ok {
				return &contracts.ModelNotFoundError{ID: args[0]}
			}
			fmt.Printf("%.8f\n", usd)
			return nil
		},
	}

	cmd.Flags().Int64("input", 0, "Input tokens")
	cmd.Flags().Int64("output", 0, "Output tokens")
	cmd.Flags().Int64("cached", 0, "Cached input tokens (part of --input)")

	return cmd
}
