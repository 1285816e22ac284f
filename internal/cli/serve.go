package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutor-desk/internal/app"
	"tutor-desk/internal/models/config"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func NewServeCommand() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the admin bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if autoMigrate {
				cfg.Database.AutoMigrate = true
			}
			if cfg.IsProduction() {
				gin.SetMode(gin.ReleaseMode)
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply migrations before serving")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	application := app.New(cfg)
	if err := application.Err(); err != nil {
		return fmt.Errorf("build application: %w", err)
	}

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := application.Start(startCtx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
	case <-application.Done():
	}

	stopCtx, cancelStop := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout+5*time.Second)
	defer cancelStop()
	return application.Stop(stopCtx)
}
