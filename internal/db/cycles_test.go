package db

import (
	"context"
	"testing"
	"time"

	"github.com/abdulachik/trendcast/internal/llm"
	"github.com/abdulachik/trendcast/internal/trends"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RecordCycle(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	cycles := []trends.Cycle{
		{
			ID:        "c1",
			Source:    trends.FeedSource,
			ItemCount: 12,
			Duration:  1500 * time.Millisecond,
			FetchedAt: base,
		},
		{
			ID:        "c2",
			Source:    trends.ModelSource(llm.ProviderGemini),
			ItemCount: 10,
			Duration:  3 * time.Second,
			Failures: []trends.StrategyFailure{
				{Strategy: "feed", Error: "unexpected status: 429"},
				{Strategy: "daily", Error: "decode daily trends: EOF"},
			},
			FetchedAt: base.Add(15 * time.Minute),
		},
		{
			ID:        "c3",
			Source:    trends.FeedSource,
			ItemCount: 15,
			Duration:  900 * time.Millisecond,
			FetchedAt: base.Add(30 * time.Minute),
		},
	}
	for _, c := range cycles {
		require.NoError(t, store.RecordCycle(ctx, c))
	}

	t.Run("lists newest first with limit", func(t *testing.T) {
		recent, err := store.ListRecentCycles(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)

		assert.Equal(t, "c3", recent[0].ID)
		assert.Equal(t, "c2", recent[1].ID)
		assert.Equal(t, "GEMINI AI", recent[1].Source)
		assert.Equal(t, int64(10), recent[1].ItemCount)
		assert.Equal(t, int64(3000), recent[1].DurationMs)
		assert.True(t, recent[1].FetchedAt.Equal(base.Add(15*time.Minute)))
	})

	t.Run("decodes failures and source", func(t *testing.T) {
		recent, err := store.ListRecentCycles(ctx, 3)
		require.NoError(t, err)

		failures, err := recent[1].DecodeFailures()
		require.NoError(t, err)
		assert.Equal(t, cycles[1].Failures, failures)

		none, err := recent[0].DecodeFailures()
		require.NoError(t, err)
		assert.Empty(t, none)

		src, err := recent[1].ParsedSource()
		require.NoError(t, err)
		assert.Equal(t, trends.ModelSource(llm.ProviderGemini), src)
	})

	t.Run("counts by source", func(t *testing.T) {
		counts, err := store.CountCyclesBySource(ctx)
		require.NoError(t, err)
		assert.Equal(t, []SourceCount{
			{Source: "Google Trends RSS", Count: 2},
			{Source: "GEMINI AI", Count: 1},
		}, counts)

		total, err := store.CountCycles(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		assert.Error(t, store.RecordCycle(ctx, cycles[0]))
	})
}

func TestStore_ServesAsRecorder(t *testing.T) {
	store := NewTestStore(t)

	svc := trends.NewService(trends.Config{Recorder: store})
	d := svc.FetchTrends(context.Background(), trends.Request{})
	require.True(t, d.IsOffline())

	recent, err := store.ListRecentCycles(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "OFFLINE_CACHE", recent[0].Source)
	assert.Equal(t, int64(1), recent[0].ItemCount)
}
