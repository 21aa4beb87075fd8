package db

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries runs the application's SQL statements.
type Queries struct {
	db DBTX
}

// New creates Queries over db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// FetchCycle is a row of fetch_cycles.
type FetchCycle struct {
	ID         string
	Source     string
	ItemCount  int64
	DurationMs int64
	Failures   string
	FetchedAt  time.Time
}

// InsertFetchCycleParams holds the columns of a new fetch_cycles row.
type InsertFetchCycleParams struct {
	ID         string
	Source     string
	ItemCount  int64
	DurationMs int64
	Failures   string
	FetchedAt  time.Time
}

const insertFetchCycle = `
INSERT INTO fetch_cycles (id, source, item_count, duration_ms, failures, fetched_at)
VALUES (?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertFetchCycle(ctx context.Context, arg InsertFetchCycleParams) error {
	_, err := q.db.ExecContext(ctx, insertFetchCycle,
		arg.ID,
		arg.Source,
		arg.ItemCount,
		arg.DurationMs,
		arg.Failures,
		arg.FetchedAt,
	)
	return err
}

const listRecentCycles = `
SELECT id, source, item_count, duration_ms, failures, fetched_at
FROM fetch_cycles
ORDER BY fetched_at DESC
LIMIT ?
`

func (q *Queries) ListRecentCycles(ctx context.Context, limit int64) ([]FetchCycle, error) {
	rows, err := q.db.QueryContext(ctx, listRecentCycles, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []FetchCycle
	for rows.Next() {
		var i FetchCycle
		if err := rows.Scan(
			&i.ID,
			&i.Source,
			&i.ItemCount,
			&i.DurationMs,
			&i.Failures,
			&i.FetchedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SourceCount is one row of CountCyclesBySource.
type SourceCount struct {
	Source string
	Count  int64
}

const countCyclesBySource = `
SELECT source, COUNT(*) AS count
FROM fetch_cycles
GROUP BY source
ORDER BY count DESC, source
`

func (q *Queries) CountCyclesBySource(ctx context.Context) ([]SourceCount, error) {
	rows, err := q.db.QueryContext(ctx, countCyclesBySource)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SourceCount
	for rows.Next() {
		var i SourceCount
		if err := rows.Scan(&i.Source, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countCycles = `SELECT COUNT(*) FROM fetch_cycles`

func (q *Queries) CountCycles(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countCycles).Scan(&count)
	return count, err
}
