// Package remote reads job postings from the upstream search endpoint.
package remote

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"jobtrend/internal/core"
	"jobtrend/internal/jobs"
)

// DefaultURL is the upstream search endpoint.
const DefaultURL = "https://dsg-api-test.k2-app.com/ats/search/all"

// maxBody caps the upstream payload read into memory.
const maxBody = 32 << 20

type Config struct {
	URL string
	// Timeout bounds one request; zero means no timeout.
	Timeout time.Duration
	// RequestsPerSecond paces outbound requests; zero disables pacing.
	RequestsPerSecond float64
	UserAgent         string
}

type Client struct {
	url     string
	hc      *http.Client
	limiter *rate.Limiter
	ua      string
}

var _ jobs.Source = (*Client)(nil)

func New(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "jobtrend/1.0"
	}
	c := &Client{
		url: cfg.URL,
		hc:  &http.Client{Timeout: cfg.Timeout},
		ua:  cfg.UserAgent,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// WithHTTPClient swaps the transport, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.hc = hc
	return c
}

// FetchJobs performs one GET. Every failure, whatever its cause, is
// reported as jobs.ErrFetchFailed.
func (c *Client) FetchJobs(ctx context.Context) ([]core.JobRecord, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: wait for rate limiter: %v", jobs.ErrFetchFailed, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", jobs.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.ua)

	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", jobs.ErrFetchFailed, c.url, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("%w: upstream status %d", jobs.ErrFetchFailed, res.StatusCode)
	}

	records, err := jobs.DecodeSearches(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Fetched upstream jobs",
		"url", c.url,
		"status", res.StatusCode,
		"records", len(records),
		"duration_ms", time.Since(start).Milliseconds())
	return records, nil
}
