package backend

import (
	"context"
	"fmt"
	"log/slog"

	"jobtrend/internal/jobs/google"
	"jobtrend/internal/jobs/memory"
	"jobtrend/internal/jobs/remote"
	"jobtrend/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case RemoteBackend:
		return f.createRemoteBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createRemoteBackend(config Config) (*BackendResult, error) {
	client := remote.New(remote.Config{
		URL:               config.JobsURL,
		Timeout:           config.UpstreamTimeout,
		RequestsPerSecond: config.UpstreamRPS,
	})

	f.logger.Info("Initialized remote job source",
		"url", config.JobsURL,
		"timeout", config.UpstreamTimeout,
		"rps", config.UpstreamRPS)

	return &BackendResult{Source: client, Name: RemoteBackend.String()}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite job source", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Source:  repo,
		Name:    SQLiteBackend.String(),
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := google.New(ctx, google.Config{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		SheetName:       config.GoogleSheetName,
		CredentialsJSON: config.GoogleServiceAccountJSON,
		CredentialsFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets job source",
		"spreadsheet_id", config.GoogleSpreadsheetID,
		"sheet", config.GoogleSheetName)

	return &BackendResult{Source: cli, Name: SheetsBackend.String()}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	var store *memory.Store
	if config.SeedFile == "" {
		store = memory.New(nil)
	} else {
		var err error
		store, err = memory.NewFromFile(config.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to seed memory backend: %w", err)
		}
	}

	f.logger.Info("Initialized memory job source", "seed_file", config.SeedFile)

	return &BackendResult{Source: store, Name: MemoryBackend.String()}, nil
}
