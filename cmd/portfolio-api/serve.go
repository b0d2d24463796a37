package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dconn.dev/portfolio-api/internal/config"
	"dconn.dev/portfolio-api/internal/handlers"
	"dconn.dev/portfolio-api/internal/metrics"
	"dconn.dev/portfolio-api/internal/services"
	"dconn.dev/portfolio-api/internal/store"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().String("addr", ":5050", "Address to listen on (host:port)")
	bindFlags(opts.v, cmd.Flags(), map[string]string{config.KeyServerAddr: "addr"})
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.APIPassword == "" {
		logger.Warn("API_PASSWORD is not set; every protected route will answer 403")
	}
	if cfg.PostPassword == "" {
		logger.Warn("POST_PROJECT is not set; project creation will answer 403")
	}

	st, err := store.Open(ctx, cfg.StorageDriver, cfg.StoragePath)
	if err != nil {
		return err
	}
	defer st.Close()

	m := metrics.New()
	projectService := services.NewProjectService(st, logger, m)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handlers.SetupRoutes(cfg, projectService, m, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening",
			zap.String("addr", cfg.ServerAddr),
			zap.String("storage_driver", cfg.StorageDriver),
			zap.String("storage_path", cfg.StoragePath),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
