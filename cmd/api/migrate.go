package main

import (
	"github.com/sefazor/cityevents-backend/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema, retrying until the database is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			db, err := database.ConnectAndMigrate(cmd.Context(), cfg.Database, logger)
			if err != nil {
				return err
			}
			database.Close(db)
			return nil
		},
	}
}
