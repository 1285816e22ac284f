package cli

import (
	"fmt"

	"tutor-desk/internal/logger"
	"tutor-desk/internal/migrate"
	"tutor-desk/internal/models/config"
	database "tutor-desk/pkg"

	"github.com/spf13/cobra"
)

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log, err := logger.New(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := database.NewDatabase(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := migrate.Up(cmd.Context(), db.DB, cfg.Database.Driver, log); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", cfg.Database.Driver)
			return nil
		},
	}
}
