package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightdeals-service/internal/infrastructure/config"
	"flightdeals-service/internal/usecase"
	"flightdeals-service/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run deal checks on CHECK_INTERVAL and expose /metrics and /health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			log := logger.NewLogger(cfg.LogLevel)
			defer log.Sync()
			log.Info("Starting flight deals service", "version", cfg.AppVersion, "interval", cfg.CheckInterval.String())

			// Set up context with cancellation
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			a, err := newApp(ctx, cfg, log, prometheus.DefaultRegisterer)
			if err != nil {
				return err
			}
			defer a.Close(context.Background(), log)

			done := make(chan struct{})
			go func() {
				defer close(done)
				runChecks(ctx, a.checker, cfg.CheckInterval, log)
			}()

			// Set up HTTP server for metrics
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("Healthy"))
			})

			server := &http.Server{
				Addr:         ":" + cfg.Port,
				Handler:      mux,
				ReadTimeout:  cfg.ReadTimeout,
				WriteTimeout: cfg.WriteTimeout,
			}

			serverErr := make(chan error, 1)
			go func() {
				log.Info("Starting HTTP server", "port", cfg.Port)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case sig := <-sigChan:
				log.Info("Received signal", "signal", sig.String())
			case err = <-serverErr:
				log.Error("HTTP server error", "error", err)
			}

			// Graceful shutdown
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error("HTTP server shutdown error", "error", err)
			}

			cancel() // Cancel the context to stop the check loop
			<-done

			log.Info("Flight deals service stopped")
			return err
		},
	}
}

// runChecks runs one pass immediately and then one per interval. Passes never overlap.
func runChecks(ctx context.Context, checker *usecase.DealChecker, interval time.Duration, log logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := checker.Run(ctx); err != nil {
			log.Error("Deal check pass failed", "error", err)
		}

		select {
		case <-ctx.Done():
			log.Info("Deal checker stopped")
			return
		case <-ticker.C:
		}
	}
}
