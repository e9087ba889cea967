package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"
	_ "time/tzdata"

	"jobtrend/internal/cache"
	"jobtrend/internal/cli"
	"jobtrend/internal/dashboard"
	apphttp "jobtrend/internal/http"
	applog "jobtrend/internal/log"
	"jobtrend/internal/metrics"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	theme, err := cli.LoadTheme(cfg)
	if err != nil {
		logger.Error("Failed to load chart layout", applog.FieldError, err, "path", cfg.LayoutFile)
		os.Exit(1)
	}

	src, err := cli.OpenSource(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize job source", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	notifier := cli.ConnectNotifier(cfg, logger)
	loader := cli.NewLoader(cfg, src, notifier)
	// Warm the shared cycle so the first viewer does not wait for it.
	loader.Start()

	sessions := dashboard.NewSessions(cfg.SessionMax, cfg.SessionTTL, dashboard.Options{
		Parser:       cli.Parser(cfg),
		Theme:        theme,
		LoadingGrace: cfg.LoadingGrace,
	})

	caches := cache.NewManager()
	caches.Register(sessions.Cleaner())
	caches.AfterSweep(func(int) { metrics.SetSessions(sessions.Len()) })
	caches.StartCleanup(time.Minute)

	srv := apphttp.NewServer(":"+cfg.Port, loader, sessions, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger.WithComponent(applog.ComponentHTTP),
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 15 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		caches.Stop()
		if notifier != nil {
			if err := notifier.Close(); err != nil {
				logger.Warn("AMQP close error", applog.FieldError, err)
			}
		}
		if err := src.Close(); err != nil {
			logger.Warn("Job source close error", applog.FieldError, err)
		}
	})

	logger.Info("Starting jobtrend server",
		applog.FieldOperation, applog.OpStartup,
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"breakpoint", theme.Breakpoint,
		"session_max", cfg.SessionMax,
		"amqp_enabled", notifier != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully", applog.FieldOperation, applog.OpShutdown)
}
