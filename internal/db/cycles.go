package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abdulachik/trendcast/internal/trends"
)

var _ trends.CycleRecorder = (*Store)(nil)

// RecordCycle stores a fetch-cycle summary. It satisfies trends.CycleRecorder.
func (s *Store) RecordCycle(ctx context.Context, c trends.Cycle) error {
	failures := c.Failures
	if failures == nil {
		failures = []trends.StrategyFailure{}
	}
	raw, err := json.Marshal(failures)
	if err != nil {
		return fmt.Errorf("encode failures: %w", err)
	}

	err = s.InsertFetchCycle(ctx, InsertFetchCycleParams{
		ID:         c.ID,
		Source:     c.Source.String(),
		ItemCount:  int64(c.ItemCount),
		DurationMs: c.Duration.Milliseconds(),
		Failures:   string(raw),
		FetchedAt:  c.FetchedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert fetch cycle: %w", err)
	}
	return nil
}

// DecodeFailures parses the failures column of a FetchCycle.
func (c FetchCycle) DecodeFailures() ([]trends.StrategyFailure, error) {
	var out []trends.StrategyFailure
	if err := json.Unmarshal([]byte(c.Failures), &out); err != nil {
		return nil, fmt.Errorf("decode failures: %w", err)
	}
	return out, nil
}

// ParsedSource maps the stored label back to a trends.Source.
func (c FetchCycle) ParsedSource() (trends.Source, error) {
	return trends.ParseSource(c.Source)
}
