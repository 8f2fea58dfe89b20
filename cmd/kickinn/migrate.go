package main

import (
	"fmt"

	"github.com/kickinn/kickinn-api/internal/config"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
			}
			defer st.Close()

			if err := st.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", cfg.Store)
			return err
		},
	}
}
