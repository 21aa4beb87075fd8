package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdulachik/trendcast/internal/config"
	"github.com/abdulachik/trendcast/internal/notify"
	"github.com/abdulachik/trendcast/internal/scheduler"
	"github.com/abdulachik/trendcast/internal/server"
	"github.com/abdulachik/trendcast/internal/trends"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the trend API and refresh loop",
	Long: `Run the HTTP API together with the scheduler that refreshes the
trend cache on a fixed interval.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForServe(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	service := newTrendService(cfg, store)
	lang := trends.ParseLanguage(cfg.DefaultLanguage)

	sched := scheduler.New(scheduler.Config{
		Service:    service,
		Notifier:   notify.NewLogNotifier(),
		Interval:   cfg.RefreshInterval,
		Language:   lang,
		Credential: cfg.ServerCredential(),
	})

	srv := server.New(server.Config{
		Addr:            cfg.HTTPAddr,
		CORSOrigins:     cfg.CORSOrigins,
		DefaultLanguage: lang,
		Service:         service,
		Health:          sched.Health(),
	})

	slog.Info("starting trendcast",
		"addr", cfg.HTTPAddr,
		"region", cfg.Region,
		"cache_window", cfg.CacheWindow,
		"feed_parser", cfg.FeedParser,
	)

	errCh := make(chan error, 2)
	go func() {
		errCh <- sched.Run(ctx)
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	// Wait for shutdown signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	slog.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", "error", err)
	}

	return nil
}
