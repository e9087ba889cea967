package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobtrend/internal/config"
	"jobtrend/internal/core"
	"jobtrend/internal/jobs/memory"
	"jobtrend/internal/jobs/remote"
	"jobtrend/internal/storage"
)

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "seed.json")
	payload := `{"searches":[{"websiteTitle":"Go Developer","websiteDatePublished":"2024-03-02"}]}`
	if err := os.WriteFile(seed, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		config  Config
		check   func(t *testing.T, res *BackendResult)
		wantErr string
	}{
		{
			name:   "remote",
			config: Config{Type: RemoteBackend, JobsURL: "http://127.0.0.1:1/jobs"},
			check: func(t *testing.T, res *BackendResult) {
				if _, ok := res.Source.(*remote.Client); !ok {
					t.Errorf("source = %T", res.Source)
				}
			},
		},
		{
			name:   "memory seeded",
			config: Config{Type: MemoryBackend, SeedFile: seed},
			check: func(t *testing.T, res *BackendResult) {
				records, err := res.Source.FetchJobs(context.Background())
				if err != nil {
					t.Fatalf("fetch: %v", err)
				}
				if len(records) != 1 || records[0].Title != "Go Developer" {
					t.Errorf("records = %+v", records)
				}
			},
		},
		{
			name:   "memory empty",
			config: Config{Type: MemoryBackend},
			check: func(t *testing.T, res *BackendResult) {
				if _, ok := res.Source.(*memory.Store); !ok {
					t.Errorf("source = %T", res.Source)
				}
			},
		},
		{
			name:   "sqlite",
			config: Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "db", "jobs.db")},
			check: func(t *testing.T, res *BackendResult) {
				repo, ok := res.Source.(*storage.SQLiteRepository)
				if !ok {
					t.Fatalf("source = %T", res.Source)
				}
				if _, err := repo.ImportJobs(context.Background(), []core.JobRecord{{Title: "x", PublishedAt: "2024-01-01"}}, false); err != nil {
					t.Fatalf("import: %v", err)
				}
				if res.Cleanup == nil {
					t.Error("sqlite backend should close its database")
				}
			},
		},
		{name: "invalid type", config: Config{Type: "redis"}, wantErr: "invalid backend type"},
		{name: "remote without url", config: Config{Type: RemoteBackend}, wantErr: "jobs URL is required"},
		{name: "sheets without id", config: Config{Type: SheetsBackend}, wantErr: "Spreadsheet ID is required"},
	}

	f := NewFactory(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.CreateBackend(context.Background(), tt.config)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateBackend: %v", err)
			}
			t.Cleanup(func() { _ = res.Close() })
			if res.Name != tt.config.Type.String() {
				t.Errorf("name = %q, want %q", res.Name, tt.config.Type)
			}
			tt.check(t, res)
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("nil config should fail")
	}

	cfg := &config.Config{DataBackend: "mongo"}
	if _, err := FromAppConfig(cfg); err == nil {
		t.Error("unknown backend should fail")
	}

	cfg = &config.Config{
		DataBackend:         config.BackendSheets,
		GoogleSpreadsheetID: "sheet-1",
		GoogleSheetName:     "Postings",
		UpstreamRPS:         2,
	}
	bc, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if bc.Type != SheetsBackend || bc.GoogleSpreadsheetID != "sheet-1" || bc.GoogleSheetName != "Postings" || bc.UpstreamRPS != 2 {
		t.Errorf("backend config = %+v", bc)
	}
}

func TestBackendTypes(t *testing.T) {
	got := strings.Join(GetBackendTypeStrings(), ",")
	if got != "remote,sqlite,sheets,memory" {
		t.Errorf("types = %s", got)
	}
	if BackendType("").IsValid() {
		t.Error("empty type should be invalid")
	}
}
