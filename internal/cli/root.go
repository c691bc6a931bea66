package cli

import (
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vkuzn/packsync/internal/config"
)

type options struct {
	cfgPath string
	yes     bool
	dryRun  bool
}

// New builds the packsync command tree.
func New() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "packsync",
		Short:        "Keep a modpack instance in sync with its metadata index",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", "packsync.yml", "path to config file")
	cmd.PersistentFlags().BoolVarP(&opts.yes, "yes", "y", false, "answer yes to all prompts")

	cmd.AddCommand(newSyncCommand(opts))
	cmd.AddCommand(newPackCommand(opts))

	return cmd
}

// loadConfig resolves the effective config for a command run. The --yes
// flag wins over the config file; when neither says anything and stdin is
// not a terminal, prompts auto-affirm so scripted runs never block.
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.cfgPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("yes") {
		cfg.AssumeYes = o.yes
	} else if !cfg.AssumeYes && !stdinIsTerminal() {
		cfg.AssumeYes = true
	}

	return cfg, nil
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newLogger(level config.LogLevel) *slog.Logger {
	lo := &slog.HandlerOptions{}
	switch level {
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, lo))
}
