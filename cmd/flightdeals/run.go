package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"flightdeals-service/internal/infrastructure/config"
	"flightdeals-service/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a single deal check pass and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			log := logger.NewLogger(cfg.LogLevel)
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, log, prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer a.Close(context.Background(), log)

			_, err = a.checker.Run(ctx)
			return err
		},
	}
}
