package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/everstacklabs/modelgate/internal/diff"
	"github.com/everstacklabs/modelgate/internal/pricing"
	"github.com/everstacklabs/modelgate/internal/publish"
)

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Create, compare and publish pricing snapshots",
	}
	cmd.AddCommand(
		snapshotCreateCmd(),
		snapshotListCmd(),
		snapshotDiffCmd(),
		snapshotPublishCmd(),
	)
	return cmd
}

func snapshotCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Freeze current pricing (overrides applied) into the snapshot store",
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
			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			source, _ := cmd.Flags().GetString("source")
			meta, _ := cmd.Flags().GetStringToString("meta")

			snap := svc.CreateSnapshot(source, meta)
			path, err := store.Put(snap)
			if err != nil {
				return err
			}

			slog.Info("snapshot created", "version", snap.Version, "models", len(snap.Models), "path", path)
			fmt.Println(snap.Version)
			return nil
		},
	}

	cmd.Flags().String("source", "cli", "Snapshot source label")
	cmd.Flags().StringToString("meta", nil, "Metadata key=value pairs")

	return cmd
}

func snapshotListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshot versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			versions, err := store.List()
			if err != nil {
				return err
			}
			for _, v := range versions {
				fmt.Println(v)
			}
			return nil
		},
	}
}

func snapshotDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [from] [to]",
		Short: "Compare two snapshots (default: the two most recent)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			from, to, err := pickPair(store, args)
			if err != nil {
				return err
			}

			availability, _ := cmd.Flags().GetBool("availability")
			cs := diff.Compute(from, to, diff.Options{TrackAvailability: availability})
			fmt.Print(diff.RenderSummary(cs))

			if cs.HasChanges() {
				os.Exit(exitChanges)
			}
			return nil
		},
	}

	cmd.Flags().Bool("availability", false, "Also report runtime_enabled and ui_hidden changes")

	return cmd
}

func snapshotPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish [version]",
		Short: "Commit a snapshot to the archive repo and open a PR",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			versions, err := store.List()
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				return fmt.Errorf("no snapshots in %s", store.Dir())
			}

			idx := len(versions) - 1
			if len(args) == 1 {
				idx = indexOf(versions, args[0])
				if idx < 0 {
					return fmt.Errorf("snapshot %s not found", args[0])
				}
			}

			snap, err := store.Get(versions[idx])
			if err != nil {
				return err
			}
			var prev *pricing.Snapshot
			if idx > 0 {
				if prev, err = store.Get(versions[idx-1]); err != nil {
					return err
				}
			}

			dryRun, _ := cmd.Flags().GetBool("dry-run")
			p := publish.New(cfg.GitHub, publish.WithDryRun(dryRun), publish.WithLogger(slog.Default()))
			res, err := p.Publish(cmd.Context(), snap, prev)
			if err != nil {
				return err
			}

			fmt.Print(diff.RenderSummary(res.Changes))
			if res.PRNumber > 0 {
				fmt.Printf("PR #%d: %s\n", res.PRNumber, res.PRURL)
			}
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Commit locally without pushing or opening a PR")

	return cmd
}

// pickPair resolves diff arguments: none means the two most recent
// snapshots, one means that version against the latest.
func pickPair(store *pricing.FileStore, args []string) (*pricing.Snapshot, *pricing.Snapshot, error) {
	versions, err := store.List()
	if err != nil {
		return nil, nil, err
	}

	var fromV, toV string
	switch len(args) {
	case 2:
		fromV, toV = args[0], args[1]
	case 1:
		if len(versions) == 0 {
			return nil, nil, fmt.Errorf("no snapshots in %s", store.Dir())
		}
		fromV, toV = args[0], versions[len(versions)-1]
	default:
		if len(versions) < 2 {
			return nil, nil, fmt.Errorf("need two snapshots to diff, found %d", len(versions))
		}
		fromV, toV = versions[len(versions)-2], versions[len(versions)-1]
	}

	from, err := store.Get(fromV)
	if err != nil {
		return nil, nil, err
	}
	to, err := store.Get(toV)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}
