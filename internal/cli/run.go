package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"github.com/trunov/thumbd/internal/app"
	"github.com/trunov/thumbd/internal/config"
)

const version = "v1"

func initSentry(cfg *config.SentryConfig, release string) error {
	return sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     release,
	})
}

func NewRunCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the thumbnail worker until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}

			if err := initSentry(&cfg.Sentry, version); err != nil {
				return fmt.Errorf("sentry.Init: %w", err)
			}
			// Flush buffered events before the program terminates.
			defer sentry.Flush(2 * time.Second)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			return a.Run(ctx)
		},
	}
}
