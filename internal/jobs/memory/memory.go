// Package memory is an in-process job source, seeded from a JSON file in
// the upstream payload shape. It backs local development and tests.
package memory

import (
	"context"
	"fmt"
	"os"
	"sync"

	"jobtrend/internal/core"
	"jobtrend/internal/jobs"
)

type Store struct {
	mu      sync.Mutex
	records []core.JobRecord
	err     error
	calls   int
}

var _ jobs.Source = (*Store)(nil)

func New(records []core.JobRecord) *Store {
	return &Store{records: append([]core.JobRecord(nil), records...)}
}

// NewFromFile seeds the store from a {"searches": [...]} file. A missing
// file yields an empty store; a malformed one is an error.
func NewFromFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	records, err := jobs.DecodeSearches(f)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	return New(records), nil
}

// FetchJobs returns a copy of the stored records, or the configured error.
func (s *Store) FetchJobs(_ context.Context) ([]core.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, fmt.Errorf("%w: %v", jobs.ErrFetchFailed, s.err)
	}
	return append([]core.JobRecord{}, s.records...), nil
}

// Replace swaps the stored records.
func (s *Store) Replace(records []core.JobRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]core.JobRecord(nil), records...)
}

// SetError makes subsequent fetches fail; nil restores normal behaviour.
func (s *Store) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls returns how many times FetchJobs ran.
func (s *Store) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
