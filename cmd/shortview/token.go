package main

import (
	"errors"
	"fmt"
	"time"

	httpdelivery "go-shortview/internal/tracking/delivery/http"
	"go-shortview/internal/tracking/domain"

	"github.com/spf13/cobra"
)

func newTokenCmd(c *cli) *cobra.Command {
	var (
		owner domain.Owner
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.IsProduction() {
				return errors.New("refusing to mint tokens in production")
			}

			token, err := httpdelivery.NewAuthenticator(c.cfg.JWTSecret).Issue(owner, ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner.ID, "owner", "", "owner id (token subject)")
	cmd.Flags().StringVar(&owner.Email, "email", "", "owner email for notifications")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
