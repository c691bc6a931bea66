package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/vkuzn/packsync/internal/adapter/metadata"
	"github.com/vkuzn/packsync/internal/adapter/prism"
	"github.com/vkuzn/packsync/internal/entity"
	"github.com/vkuzn/packsync/internal/repository/fetch"
	"github.com/vkuzn/packsync/internal/service/importer"
	"github.com/vkuzn/packsync/internal/service/reconciler"
)

func newSyncCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the mods directory against the metadata index",
		Long: `Import any launcher-produced index into per-mod descriptors, then
download mods that are declared but missing and delete jars that are
present but undeclared. Each action category is confirmed once.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the plan without changing anything")

	return cmd
}

func runSync(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	log := newLogger(cfg.LogLevel)
	fs := afero.NewOsFs()
	out := cmd.OutOrStdout()

	metadataDir := filepath.Join(cfg.InstanceDir, cfg.Sync.MetadataDir)
	modsDir := filepath.Join(cfg.InstanceDir, cfg.Sync.ModsDir)
	indexPath := filepath.Join(cfg.InstanceDir, cfg.Sync.IndexFile)

	store := metadata.NewStoreWithFS(fs, metadataDir, log)

	imp := importer.NewServiceWithFS(fs, store, prism.NewParserWithFS(fs, log), log)
	if err := imp.Import(indexPath); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	rec := reconciler.NewServiceWithFS(fs, store, fetch.NewRepository(log), modsDir, cfg.Sync.Keep, log)
	rec.SetOutput(out)

	plan, err := rec.Plan()
	if err != nil {
		return fmt.Errorf("cannot build plan: %w", err)
	}

	if plan.Empty() {
		fmt.Fprintln(out, "All mods are already downloaded!")

		return nil
	}

	if plan.Skipped > 0 {
		fmt.Fprintf(out, "Skipping %d mods as they're already installed.\n", plan.Skipped)
	}

	if opts.dryRun {
		printPlan(cmd, plan)

		return nil
	}

	confirm := newPrompt(cmd.InOrStdin(), out, cfg.AssumeYes)
	if err := rec.Apply(cmd.Context(), plan, confirm); err != nil {
		return err
	}

	fmt.Fprintln(out, "All done!")

	return nil
}

func printPlan(cmd *cobra.Command, plan *entity.Plan) {
	out := cmd.OutOrStdout()

	for _, name := range plan.Deletions {
		fmt.Fprintf(out, "would delete %s\n", name)
	}
	for _, dl := range plan.Downloads {
		fmt.Fprintf(out, "would download %s from %s\n", dl.Filename, dl.URL)
	}
}
