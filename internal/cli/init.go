// Package cli provides common CLI initialization utilities shared by
// cmd/jobtrend and cmd/jobsctl.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"jobtrend/internal/amqp"
	"jobtrend/internal/backend"
	"jobtrend/internal/chart"
	"jobtrend/internal/config"
	"jobtrend/internal/core"
	"jobtrend/internal/fetch"
	applog "jobtrend/internal/log"
)

// SetupLogger initializes structured logging at the given level and sets
// it as the default logger.
func SetupLogger(level string) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(level),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig loads and validates configuration.
func LoadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg, err := LoadConfig()
	if err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenSource builds the job source selected by DATA_BACKEND.
func OpenSource(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*backend.BackendResult, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateBackend(ctx, bc)
	if err != nil {
		return nil, fmt.Errorf("open %s source: %w", bc.Type, err)
	}
	return res, nil
}

// ConnectNotifier dials the broker when AMQP_URL is set. A broker that is
// unreachable is logged and skipped; notifications are optional.
func ConnectNotifier(cfg *config.Config, logger *applog.Logger) *amqp.Client {
	if cfg.AMQPURL == "" {
		return nil
	}
	logger = logger.WithComponent(applog.ComponentAMQP)
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing without notifications", applog.FieldError, err)
		return nil
	}
	logger.Info("Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"routing_key", cfg.AMQPRoutingKey)
	return client
}

// Parser returns the date parser pinned to the configured timezone.
func Parser(cfg *config.Config) core.DateParser {
	return core.DateParser{Location: cfg.Location()}
}

// NewLoader wires a source into the shared fetch loader.
// The notifier may be nil.
func NewLoader(cfg *config.Config, src *backend.BackendResult, notifier *amqp.Client) *fetch.Loader {
	opts := fetch.Options{
		SourceName: src.Name,
		Timeout:    cfg.UpstreamTimeout,
		Parser:     Parser(cfg),
	}
	if notifier != nil {
		opts.Notifier = notifier
	}
	return fetch.New(src.Source, opts)
}

// LoadTheme reads LAYOUT_FILE when set and applies COMPACT_BREAKPOINT.
func LoadTheme(cfg *config.Config) (chart.Theme, error) {
	theme := chart.DefaultTheme()
	if cfg.LayoutFile != "" {
		t, err := chart.LoadTheme(cfg.LayoutFile)
		if err != nil {
			return chart.Theme{}, err
		}
		theme = t
	}
	if cfg.CompactBreakpoint > 0 {
		theme.Breakpoint = cfg.CompactBreakpoint
	}
	return theme, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when cleanup is complete.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		}

		cancel()
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
