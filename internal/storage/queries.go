package storage

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type JobPosting struct {
	ID           int64
	Title        string
	Organization string
	Location     string
	PublishedAt  string
}

const createJobPosting = `
INSERT INTO job_postings (title, organization, location, published_at)
VALUES (?, ?, ?, ?)
`

type CreateJobPostingParams struct {
	Title        string
	Organization string
	Location     string
	PublishedAt  string
}

func (q *Queries) CreateJobPosting(ctx context.Context, arg CreateJobPostingParams) error {
	_, err := q.db.ExecContext(ctx, createJobPosting,
		arg.Title,
		arg.Organization,
		arg.Location,
		arg.PublishedAt,
	)
	return err
}

const listJobPostings = `
SELECT id, title, organization, location, published_at
FROM job_postings
ORDER BY id
`

func (q *Queries) ListJobPostings(ctx context.Context) ([]JobPosting, error) {
	rows, err := q.db.QueryContext(ctx, listJobPostings)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []JobPosting
	for rows.Next() {
		var i JobPosting
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Organization,
			&i.Location,
			&i.PublishedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countJobPostings = `SELECT COUNT(*) FROM job_postings`

func (q *Queries) CountJobPostings(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countJobPostings)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteJobPostings = `DELETE FROM job_postings`

func (q *Queries) DeleteJobPostings(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteJobPostings)
	return err
}

type FetchCycle struct {
	ID       int64
	Source   string
	Cycle    int64
	Records  int64
	Dropped  int64
	Months   int64
	Failed   bool
	LoadedAt time.Time
}

const createFetchCycle = `
INSERT INTO fetch_cycles (source, cycle, records, dropped, months, failed, loaded_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreateFetchCycleParams struct {
	Source   string
	Cycle    int64
	Records  int64
	Dropped  int64
	Months   int64
	Failed   bool
	LoadedAt time.Time
}

func (q *Queries) CreateFetchCycle(ctx context.Context, arg CreateFetchCycleParams) error {
	_, err := q.db.ExecContext(ctx, createFetchCycle,
		arg.Source,
		arg.Cycle,
		arg.Records,
		arg.Dropped,
		arg.Months,
		arg.Failed,
		arg.LoadedAt,
	)
	return err
}

const listRecentFetchCycles = `
SELECT id, source, cycle, records, dropped, months, failed, loaded_at
FROM fetch_cycles
ORDER BY loaded_at DESC, id DESC
LIMIT ?
`

func (q *Queries) ListRecentFetchCycles(ctx context.Context, limit int64) ([]FetchCycle, error) {
	rows, err := q.db.QueryContext(ctx, listRecentFetchCycles, limit)
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
			&i.Cycle,
			&i.Records,
			&i.Dropped,
			&i.Months,
			&i.Failed,
			&i.LoadedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
