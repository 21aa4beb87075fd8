package trends

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRegion       = "TR"
	DefaultCacheWindow  = 15 * time.Minute
	DefaultFetchTimeout = 10 * time.Second

	offlineTitle  = "Trend verisi yüklenemedi"
	offlineVolume = "-"
)

// Cycle summarizes one cache-miss run of the cascade.
type Cycle struct {
	ID        string
	Source    Source
	ItemCount int
	Duration  time.Duration
	Failures  []StrategyFailure
	FetchedAt time.Time
}

// StrategyFailure is an upstream error absorbed during a cycle.
type StrategyFailure struct {
	Strategy string `json:"strategy"`
	Error    string `json:"error"`
}

// CycleRecorder receives a summary after every cache-miss cycle.
type CycleRecorder interface {
	RecordCycle(ctx context.Context, c Cycle) error
}

// Config holds configuration for the service.
type Config struct {
	// Strategies are tried in order; the first non-empty result wins.
	Strategies   []Strategy
	Region       string
	CacheWindow  time.Duration
	FetchTimeout time.Duration
	Recorder     CycleRecorder    // Optional
	Now          func() time.Time // Optional, for tests
}

// Service owns the trend cache and runs the fetch cascade.
// It is safe for concurrent use.
type Service struct {
	strategies   []Strategy
	region       string
	cacheWindow  time.Duration
	fetchTimeout time.Duration
	recorder     CycleRecorder
	now          func() time.Time

	group singleflight.Group

	mu       sync.Mutex
	cached   *Data
	cachedAt time.Time
}

// NewService creates a new Service.
func NewService(cfg Config) *Service {
	s := &Service{
		strategies:   cfg.Strategies,
		region:       cfg.Region,
		cacheWindow:  cfg.CacheWindow,
		fetchTimeout: cfg.FetchTimeout,
		recorder:     cfg.Recorder,
		now:          cfg.Now,
	}
	if s.region == "" {
		s.region = DefaultRegion
	}
	if s.cacheWindow <= 0 {
		s.cacheWindow = DefaultCacheWindow
	}
	if s.fetchTimeout <= 0 {
		s.fetchTimeout = DefaultFetchTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// FetchTrends returns the cached snapshot while it is fresh, otherwise runs
// the cascade and caches its result, the offline sentinel included.
// It never fails; exhausting every source yields the offline sentinel.
//
// The cache is a single slot shared by all languages: a hit returns the last
// snapshot whatever req.Language is.
func (s *Service) FetchTrends(ctx context.Context, req Request) Data {
	if d, ok := s.fresh(); ok {
		return d
	}

	v, _, _ := s.group.Do("cycle", func() (any, error) {
		if d, ok := s.fresh(); ok {
			return d, nil
		}
		// A started cycle runs to completion even if the caller goes away.
		return s.runCycle(context.WithoutCancel(ctx), req), nil
	})
	return v.(Data)
}

// ClearCache discards the cached snapshot so the next FetchTrends re-runs the cascade.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = nil
	s.cachedAt = time.Time{}
}

// Cached returns the current snapshot without fetching.
func (s *Service) Cached() (Data, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached == nil {
		return Data{}, false
	}
	return *s.cached, true
}

func (s *Service) fresh() (Data, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached == nil || s.now().Sub(s.cachedAt) >= s.cacheWindow {
		return Data{}, false
	}
	return *s.cached, true
}

func (s *Service) runCycle(ctx context.Context, req Request) Data {
	start := s.now()
	cycle := Cycle{ID: uuid.NewString()}
	logger := slog.With("cycle_id", cycle.ID)

	var (
		items  []Item
		source = OfflineSource
	)

	for _, strategy := range s.strategies {
		got, err := s.fetchOne(ctx, strategy, req)
		if errors.Is(err, ErrSkipped) {
			logger.Debug("strategy skipped", "strategy", strategy.Name())
			continue
		}
		if err != nil {
			logger.Warn("strategy_failed", "strategy", strategy.Name(), "error", err)
			cycle.Failures = append(cycle.Failures, StrategyFailure{
				Strategy: strategy.Name(),
				Error:    err.Error(),
			})
			continue
		}
		if len(got) == 0 {
			logger.Debug("strategy returned no items", "strategy", strategy.Name())
			continue
		}

		items = got
		source = strategy.Source(req)
		break
	}

	if len(items) == 0 {
		items = []Item{offlineItem()}
		source = OfflineSource
	}
	if len(items) > MaxTrends {
		items = items[:MaxTrends]
	}

	now := s.now()
	data := Data{
		Trends:    items,
		Region:    s.region,
		FetchedAt: now,
		Source:    source,
	}

	s.mu.Lock()
	s.cached = &data
	s.cachedAt = start
	s.mu.Unlock()

	cycle.Source = source
	cycle.ItemCount = len(items)
	cycle.Duration = now.Sub(start)
	cycle.FetchedAt = now

	logger.Info("trend cycle complete",
		"source", source.String(),
		"items", cycle.ItemCount,
		"failures", len(cycle.Failures),
		"duration", cycle.Duration,
	)

	if s.recorder != nil {
		if err := s.recorder.RecordCycle(ctx, cycle); err != nil {
			logger.Error("failed to record cycle", "error", err)
		}
	}

	return data
}

func (s *Service) fetchOne(ctx context.Context, strategy Strategy, req Request) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	return strategy.Fetch(ctx, req)
}

func offlineItem() Item {
	return Item{
		Title:        offlineTitle,
		SearchVolume: offlineVolume,
		IsActive:     false,
		Category:     CategorySystem,
	}
}
