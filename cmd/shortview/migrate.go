package main

import (
	"fmt"

	"go-shortview/internal/tracking/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd(c *cli) *cobra.Command {
	var down int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations, or roll back with --down",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(c.cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if down > 0 {
				if err := database.RollbackMigrations(db, c.cfg.DatabaseDriver, down); err != nil {
					return fmt.Errorf("rollback: %w", err)
				}
				c.logger.Info("migrations rolled back", zap.Int("steps", down))
				return nil
			}

			if err := database.RunMigrations(db, c.cfg.DatabaseDriver); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			c.logger.Info("migrations applied", zap.String("driver", c.cfg.DatabaseDriver))
			return nil
		},
	}

	cmd.Flags().IntVar(&down, "down", 0, "number of migrations to roll back")
	return cmd
}
