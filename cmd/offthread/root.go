package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jzx17/offthread/internal/config"
)

type rootOptions struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "offthread",
		Short: "Run and inspect background worker units",
		Long: `offthread constructs worker handles for the built-in units and
exchanges messages with them. In a render context every handle is inert.`,
		Example: `  $ offthread probe
  $ offthread run --unit double --message go
  $ OFFTHREAD_CONTEXT=render offthread run --unit echo --message hi`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file (overrides $"+config.EnvConfigPath+")")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newProbeCmd(opts))
	cmd.AddCommand(newUnitsCmd())
	cmd.AddCommand(newRunCmd(opts))
	return cmd
}

func (o *rootOptions) setup() error {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return err
		}
		cfg.ApplyEnv()
		err = cfg.Validate()
	} else {
		cfg, err = config.FromEnvironment()
	}
	if err != nil {
		return err
	}

	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)

	o.cfg = cfg
	o.logger = logger
	return nil
}
