// Package cli implements the nsqpace command line: offline tools to inspect
// how NSQ error codes are classified and how the backoff timer paces retries.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zeusync/nsqcore/internal/core/config"
	"github.com/zeusync/nsqcore/internal/core/observability/log"
)

type options struct {
	cfgPath string
	isDebug bool
}

// NewRootCommand wires every subcommand under a fresh root.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "nsqpace",
		Short:         "Inspect NSQ error classification and backoff pacing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.cfgPath, "config", "", "config file (defaults are used when empty)")
	root.PersistentFlags().BoolVar(&opts.isDebug, "debug", false, "enable debug logging")

	root.AddCommand(
		newClassifyCommand(),
		newSimulateCommand(opts),
		newScheduleCommand(opts),
	)
	return root
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		logger := log.New(log.LevelError)
		logger.Error("Command failed", log.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// load reads .env, then the config file if one was given.
func (o *options) load() (*config.Config, *log.Logger, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, nil, err
	}

	cfg := config.Default()
	if o.cfgPath != "" {
		loaded, err := config.Load(o.cfgPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = *loaded
	}

	level := cfg.LogLevel()
	if o.isDebug {
		level = log.LevelDebug
	}
	return &cfg, log.New(level), nil
}
