package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"jobtrend/internal/core"
	"jobtrend/internal/jobs"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var _ jobs.Source = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// FetchJobs implements jobs.Source. Records come back in import order.
func (r *SQLiteRepository) FetchJobs(ctx context.Context) ([]core.JobRecord, error) {
	rows, err := r.queries.ListJobPostings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list job postings: %v", jobs.ErrFetchFailed, err)
	}
	out := make([]core.JobRecord, 0, len(rows))
	for _, p := range rows {
		out = append(out, core.JobRecord{
			Title:        p.Title,
			Organization: p.Organization,
			Location:     p.Location,
			PublishedAt:  p.PublishedAt,
		})
	}
	return out, nil
}

// ImportJobs appends records in one transaction. With replace set the
// table is emptied first.
func (r *SQLiteRepository) ImportJobs(ctx context.Context, records []core.JobRecord, replace bool) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if replace {
		if err := q.DeleteJobPostings(ctx); err != nil {
			return 0, fmt.Errorf("clear job postings: %w", err)
		}
	}
	for i, rec := range records {
		err := q.CreateJobPosting(ctx, CreateJobPostingParams{
			Title:        rec.Title,
			Organization: rec.Organization,
			Location:     rec.Location,
			PublishedAt:  rec.PublishedAt,
		})
		if err != nil {
			return 0, fmt.Errorf("insert record %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Job postings imported to SQLite",
		"records", len(records),
		"replace", replace)
	return len(records), nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountJobPostings(ctx)
	if err != nil {
		return 0, fmt.Errorf("count job postings: %w", err)
	}
	return n, nil
}

// RecordFetchCycle stores the outcome of one fetch cycle.
func (r *SQLiteRepository) RecordFetchCycle(ctx context.Context, c FetchCycle) error {
	err := r.queries.CreateFetchCycle(ctx, CreateFetchCycleParams{
		Source:   c.Source,
		Cycle:    c.Cycle,
		Records:  c.Records,
		Dropped:  c.Dropped,
		Months:   c.Months,
		Failed:   c.Failed,
		LoadedAt: c.LoadedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("record fetch cycle %d: %w", c.Cycle, err)
	}
	return nil
}

// RecentFetchCycles returns up to limit cycles, newest first.
func (r *SQLiteRepository) RecentFetchCycles(ctx context.Context, limit int) ([]FetchCycle, error) {
	if limit <= 0 {
		return []FetchCycle{}, nil
	}
	items, err := r.queries.ListRecentFetchCycles(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list fetch cycles: %w", err)
	}
	if items == nil {
		items = []FetchCycle{}
	}
	return items, nil
}
