package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSweepCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired artifacts of every owner who opted in, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := initTrackingService(c.cfg, c.logger)
			if err != nil {
				return fmt.Errorf("init service: %w", err)
			}
			defer cleanup()

			deleted, err := svc.SweepAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("sweep: %w", err)
			}

			c.logger.Info("sweep finished", zap.Int("deleted", deleted))
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired artifacts\n", deleted)
			return nil
		},
	}
}
