package main

import (
	"github.com/gartstein/crm/internal/crm/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Connect migrates on open.
			repo, err := db.Connect(cmd.Context(), a.cfg.Database(), a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("schema migrated", zap.String("driver", a.cfg.DBDriver))
			return repo.Close()
		},
	}
}
