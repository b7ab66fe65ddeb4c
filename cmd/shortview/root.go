package main

import (
	"fmt"

	"go-shortview/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli holds what every subcommand needs once flags and env are parsed.
type cli struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "shortview",
		Short:         "Tracking pixels and tracked links with owner notifications",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd.Context())
		},
	}

	root.AddCommand(
		newServeCmd(c),
		newSweepCmd(c),
		newMigrateCmd(c),
		newTokenCmd(c),
	)
	return root
}

func (c *cli) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	c.cfg = cfg
	c.logger = logger.With(zap.String("service", "shortview"), zap.String("version", Version))
	return nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
