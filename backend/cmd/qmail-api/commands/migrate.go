package commands

import (
	"github.com/spf13/cobra"

	"github.com/qmail-dev/qmail/backend/internal/storage/pg"
	"github.com/qmail-dev/qmail/shared/logger"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := pg.Connect(ctx, cfg.Private.Pg, pg.DefaultConnectionConfig())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := pg.Migrate(ctx, db); err != nil {
				return err
			}
			logger.Log.Info("migrations applied")
			return nil
		},
	}
}
