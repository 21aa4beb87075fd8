// Package scheduler refreshes the trend cache on a fixed interval and tracks
// the health of the upstream sources.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abdulachik/trendcast/internal/llm"
	"github.com/abdulachik/trendcast/internal/notify"
	"github.com/abdulachik/trendcast/internal/trends"
)

// ComponentTrends is the health key for the trend cascade.
const ComponentTrends = "trends"

var errOffline = errors.New("all trend sources exhausted, serving offline sentinel")

// TrendService is the part of trends.Service the scheduler drives.
type TrendService interface {
	ClearCache()
	FetchTrends(ctx context.Context, req trends.Request) trends.Data
}

// Scheduler periodically refreshes the trend cache.
type Scheduler struct {
	service  TrendService
	notifier notify.Notifier
	health   *Health
	interval time.Duration
	request  trends.Request

	mu      sync.Mutex
	offline bool
}

// Config holds scheduler configuration.
type Config struct {
	Service    TrendService
	Notifier   notify.Notifier // Optional
	Interval   time.Duration
	Language   trends.Language
	Credential llm.Credential // Optional server-side model credential
}

// New creates a new scheduler.
func New(cfg Config) *Scheduler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = trends.DefaultCacheWindow
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier()
	}

	return &Scheduler{
		service:  cfg.Service,
		notifier: notifier,
		health:   NewHealth(),
		interval: interval,
		request: trends.Request{
			Language: cfg.Language,
			APIKey:   cfg.Credential.APIKey,
			Provider: cfg.Credential.Provider,
		},
	}
}

// Run refreshes immediately and then on every tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("starting scheduler",
		"refresh_interval", s.interval,
		"language", s.request.Language,
		"model_fallback", s.request.Credential().Valid(),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Refresh forces a new fetch cycle and updates health. It notifies on
// transitions into and out of the offline state.
func (s *Scheduler) Refresh(ctx context.Context) trends.Data {
	slog.Debug("running refresh cycle")

	s.service.ClearCache()
	data := s.service.FetchTrends(ctx, s.request)

	s.mu.Lock()
	wasOffline := s.offline
	s.offline = data.IsOffline()
	s.mu.Unlock()

	if data.IsOffline() {
		s.health.SetUnhealthy(ComponentTrends, errOffline)
		if !wasOffline {
			s.notify(ctx, "Trend sources offline",
				"Every upstream trend source failed; serving the offline sentinel until the next refresh.")
		}
		return data
	}

	s.health.SetHealthy(ComponentTrends, fmt.Sprintf("%d trends from %s", len(data.Trends), data.Source))
	if wasOffline {
		s.notify(ctx, "Trend sources recovered", fmt.Sprintf("Trends are flowing again from %s.", data.Source))
	}
	return data
}

func (s *Scheduler) notify(ctx context.Context, subject, body string) {
	if err := s.notifier.Send(ctx, notify.Notification{Subject: subject, Body: body}); err != nil {
		slog.Warn("failed to send notification", "subject", subject, "error", err)
	}
}

// Health returns the health tracker.
func (s *Scheduler) Health() *Health {
	return s.health
}
