package main

import (
	"github.com/spf13/cobra"

	"github.com/Spok95/linetrack/internal/infra/db"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate up|down|status",
	Short:     "Apply, roll back or list database migrations",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(db.Up), string(db.Down), string(db.Status)},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := db.ParseDirection(args[0])
		if err != nil {
			return err
		}
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}
		return db.Migrate(cmd.Context(), cfg.Postgres.DSN, dir, cmd.OutOrStdout())
	},
}
