package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kickinn/kickinn-api/internal/config"
	"github.com/kickinn/kickinn-api/internal/server"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		userID string
		secret string
		hours  int
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed bearer token for a user (development only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user %q: %w", userID, err)
			}

			var jwtConfig *config.JWTConfig
			if secret != "" {
				jwtConfig, err = config.NewJWTConfig(secret, hours)
			} else {
				var cfg *config.Config
				if cfg, err = config.Load(); err != nil {
					return err
				}
				if cmd.Flags().Changed("hours") {
					cfg.JWTExpirationHours = hours
				}
				jwtConfig, err = cfg.JWT()
			}
			if err != nil {
				return err
			}

			token, err := server.NewJWTService(jwtConfig).GenerateToken(id)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID (UUID) placed in the sub claim")
	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (defaults to the configured jwt_secret)")
	cmd.Flags().IntVar(&hours, "hours", 24, "Token lifetime in hours")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
