package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"jobtrend/internal/jobs"
)

func TestFetchJobsSuccess(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("accept header = %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"searches":[{"websiteTitle":"Dev","websiteDatePublished":"2025-03-01"}]}`))
	}))
	defer srv.Close()

	c := New(Config{URL: srv.URL})
	got, err := c.FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("FetchJobs: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Dev" {
		t.Fatalf("records = %+v", got)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("hits = %d", hits)
	}
}

func TestFetchJobsFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}},
		{"malformed", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"searches":[`))
		}},
		{"wrong shape", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results":[]}`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			_, err := New(Config{URL: srv.URL}).FetchJobs(context.Background())
			if !errors.Is(err, jobs.ErrFetchFailed) {
				t.Fatalf("err=%v want ErrFetchFailed", err)
			}
		})
	}
}

func TestFetchJobsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	_, err := New(Config{URL: url}).FetchJobs(context.Background())
	if !errors.Is(err, jobs.ErrFetchFailed) {
		t.Fatalf("err=%v want ErrFetchFailed", err)
	}
}

func TestFetchJobsTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(Config{URL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.FetchJobs(context.Background())
	if !errors.Is(err, jobs.ErrFetchFailed) {
		t.Fatalf("err=%v want ErrFetchFailed", err)
	}
}

func TestFetchJobsLimiterHonoursContext(t *testing.T) {
	c := New(Config{URL: "http://127.0.0.1:0", RequestsPerSecond: 0.001})
	// drain the single burst token
	c.limiter.Allow()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.FetchJobs(ctx)
	if !errors.Is(err, jobs.ErrFetchFailed) {
		t.Fatalf("err=%v want ErrFetchFailed", err)
	}
}

func TestNewDefaults(t *testing.T) {
	c := New(Config{})
	if c.url != DefaultURL || c.limiter != nil || c.hc.Timeout != 0 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}
