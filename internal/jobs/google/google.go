// Package google reads job postings from a Google Sheets tab. The first
// row is a header naming the Title, Organization, Location and Published
// columns, in any order.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"jobtrend/internal/core"
	"jobtrend/internal/jobs"
)

type Config struct {
	SpreadsheetID string
	// SheetName defaults to "Jobs".
	SheetName string
	// CredentialsJSON takes precedence over CredentialsFile.
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string
}

var _ jobs.Source = (*Client)(nil)

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheet := strings.TrimSpace(cfg.SheetName)
	if sheet == "" {
		sheet = "Jobs"
	}
	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID, sheet: sheet}, nil
}

// newSheetsService builds a read-only Sheets service from service account
// credentials, falling back to GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	credentialsJSON := []byte(strings.TrimSpace(cfg.CredentialsJSON))
	if len(credentialsJSON) == 0 {
		path := strings.TrimSpace(cfg.CredentialsFile)
		if path == "" {
			path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
		}
		if path == "" {
			return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// FetchJobs reads the whole tab in one request.
func (c *Client) FetchJobs(ctx context.Context) ([]core.JobRecord, error) {
	rng := fmt.Sprintf("%s!A:Z", c.sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %v", jobs.ErrFetchFailed, c.sheet, err)
	}
	records, err := parseRows(resp.Values)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", jobs.ErrFetchFailed, err)
	}
	slog.DebugContext(ctx, "Read jobs from sheet", "sheet", c.sheet, "rows", len(resp.Values), "records", len(records))
	return records, nil
}
