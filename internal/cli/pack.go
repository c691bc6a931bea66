package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/vkuzn/packsync/internal/service/packager"
)

func newPackCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pack",
		Short: "Zip the instance into a distributable archive",
		Long: `Package the instance manifest and content directories into a zip laid
out like a real Prism/MultiMC instance. Files reachable from more than
one source are stored once.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPack(cmd, opts)
		},
	}
}

func runPack(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	log := newLogger(cfg.LogLevel)
	svc := packager.NewServiceWithFS(afero.NewOsFs(), log)

	if err := svc.EnsureInstanceCfg(cfg.InstanceDir, cfg.Pack.Name); err != nil {
		return err
	}

	sources := make([]packager.Source, 0, len(cfg.Pack.Sources))
	for _, src := range cfg.Pack.Sources {
		sources = append(sources, packager.Source{
			Path:   filepath.Join(cfg.InstanceDir, src.Path),
			Prefix: src.Prefix,
		})
	}

	output := filepath.Join(cfg.InstanceDir, cfg.Pack.Output)
	if err := svc.Build(sources, output); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Modpack zipped successfully: %s\n", output)

	return nil
}
