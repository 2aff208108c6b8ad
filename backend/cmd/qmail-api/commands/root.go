package commands

import (
	"github.com/spf13/cobra"

	"github.com/qmail-dev/qmail/shared/config"
	"github.com/qmail-dev/qmail/shared/logger"
)

var (
	configFolder string
	cfg          *config.Config
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "qmail-api",
		Short:        "QMail encrypted mail relay API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configFolder)
			if err != nil {
				return err
			}
			cfg = loaded
			logger.Initialize(cfg.Public.Log.Level, cfg.Public.Log.JSON)
			return nil
		},
		// serve is the default
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")

	root.AddCommand(serveCmd(), migrateCmd())
	return root
}
