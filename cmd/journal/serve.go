package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trading-journal-go/internal/api"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer log.Sync()
			log.Info("Configuration loaded", zap.String("mode", cfg.Backend.Mode))

			a, err := newApp(cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			server := api.NewAPIServer(cfg.Server.Port, api.NewAPIHandler(a.services(), log), log)
			if err := server.Start(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			log.Info("Shutdown signal received, gracefully shutting down...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Stop(shutdownCtx); err != nil {
				log.Error("Graceful shutdown failed", zap.Error(err))
				return err
			}
			log.Info("Server has been shut down.")
			return nil
		},
	}
}
