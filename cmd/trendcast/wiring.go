package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abdulachik/trendcast/internal/config"
	"github.com/abdulachik/trendcast/internal/db"
	"github.com/abdulachik/trendcast/internal/llm"
	"github.com/abdulachik/trendcast/internal/trends"
)

// openStore connects to the history database and applies migrations.
func openStore(ctx context.Context, cfg *config.Config) (*db.Store, error) {
	slog.Info("connecting to database", "path", cfg.DatabasePath)
	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// newTrendService wires the feed, daily and model strategies in cascade order.
// recorder may be nil.
func newTrendService(cfg *config.Config, recorder trends.CycleRecorder) *trends.Service {
	completer := llm.NewRateLimited(llm.New(cfg.LLMConfig()), cfg.ModelRateInterval)

	return trends.NewService(trends.Config{
		Strategies: []trends.Strategy{
			trends.NewFeedStrategy(trends.FeedConfig{
				URL:    cfg.FeedURL,
				Parser: trends.NewFeedParser(cfg.FeedParser),
			}),
			trends.NewDailyStrategy(cfg.DailyURL),
			trends.NewModelStrategy(completer),
		},
		Region:       cfg.Region,
		CacheWindow:  cfg.CacheWindow,
		FetchTimeout: cfg.FetchTimeout,
		Recorder:     recorder,
	})
}
