package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"jobtrend/internal/core"
	"jobtrend/internal/jobs"
)

func TestStoreFetchReturnsCopy(t *testing.T) {
	s := New([]core.JobRecord{{Title: "a", PublishedAt: "2025-01-01"}})
	got, err := s.FetchJobs(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected fetch: %v %v", got, err)
	}
	got[0].Title = "mutated"
	again, _ := s.FetchJobs(context.Background())
	if again[0].Title != "a" {
		t.Fatalf("store exposed its slice")
	}
	if s.Calls() != 2 {
		t.Fatalf("calls = %d", s.Calls())
	}
}

func TestStoreSetError(t *testing.T) {
	s := New(nil)
	s.SetError(errors.New("down"))
	if _, err := s.FetchJobs(context.Background()); !errors.Is(err, jobs.ErrFetchFailed) {
		t.Fatalf("err=%v want ErrFetchFailed", err)
	}
	s.SetError(nil)
	got, err := s.FetchJobs(context.Background())
	if err != nil || got == nil {
		t.Fatalf("expected empty non-nil result, got %v %v", got, err)
	}
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFromFile(filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if got, _ := s.FetchJobs(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty store, got %v", got)
	}

	path := filepath.Join(dir, "seed.json")
	body := `{"searches":[{"websiteTitle":"A","websiteDatePublished":"2025-01-05"},{"websiteTitle":"B","websiteDatePublished":"2025-03-01"}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err = NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile: %v", err)
	}
	got, _ := s.FetchJobs(context.Background())
	if len(got) != 2 || got[0].Title != "A" || got[1].Title != "B" {
		t.Fatalf("seeded records = %+v", got)
	}

	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte(`{"oops":true}`), 0o644)
	if _, err := NewFromFile(bad); err == nil {
		t.Fatalf("expected error for malformed seed")
	}
}
