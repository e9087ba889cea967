package http

import (
	"context"
	"html/template"
	"net/http"
	"sync"
	"time"

	"jobtrend/internal/dashboard"
	"jobtrend/internal/fetch"
	"jobtrend/internal/log"
	"jobtrend/internal/metrics"
	"jobtrend/internal/middleware/ratelimit"
	"jobtrend/internal/middleware/security"
	"jobtrend/internal/middleware/trace"
	appweb "jobtrend/web"
)

// Options tunes the server. Zero values fall back to sensible defaults.
type Options struct {
	RateLimitPerMinute int
	// PollWait bounds how long a UI request waits for an in-flight load
	// before answering with the loading state.
	PollWait time.Duration
	Logger   *log.Logger
}

func (o Options) withDefaults() Options {
	if o.RateLimitPerMinute <= 0 {
		o.RateLimitPerMinute = 120
	}
	if o.PollWait <= 0 {
		o.PollWait = 2 * time.Second
	}
	if o.Logger == nil {
		o.Logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}
	return o
}

type Server struct {
	http.Server
	templates *template.Template
	loader    *fetch.Loader
	sessions  *dashboard.Sessions

	logger     *log.Logger
	structured *log.StructuredLogger
	pollWait   time.Duration
	started    time.Time

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, loader *fetch.Loader, sessions *dashboard.Sessions, opts Options) *Server {
	opts = opts.withDefaults()
	mux := http.NewServeMux()

	detector := security.NewDetector()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		loader:           loader,
		sessions:         sessions,
		logger:           opts.Logger,
		structured:       log.NewStructuredLogger(opts.Logger),
		pollWait:         opts.PollWait,
		started:          time.Now(),
		securityDetector: detector,
		traceMiddleware:  trace.NewMiddleware(detector.ExtractClientIP),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
			Burst:             max(10, opts.RateLimitPerMinute/6),
			CleanupInterval:   5 * time.Minute,
		}),
	}

	t, err := appweb.Templates()
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	if sub, err := appweb.Static(); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	limited := s.rateLimiter.Middleware(detector.ExtractClientIP, s.onRateLimited)

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.Handle("/metrics", metrics.Handler())

	// UI endpoints
	mux.Handle("/ui/chart", limited(http.HandlerFunc(s.handleChart)))
	mux.Handle("/ui/viewport", limited(http.HandlerFunc(s.handleViewport)))
	mux.Handle("/ui/year", limited(http.HandlerFunc(s.handleSelectYear)))
	mux.Handle("/ui/month", limited(http.HandlerFunc(s.handleSelectMonth)))
	mux.Handle("/ui/bar", limited(http.HandlerFunc(s.handleBarClick)))
	mux.Handle("/ui/controls", limited(http.HandlerFunc(s.handleControls)))
	mux.Handle("/ui/table", limited(http.HandlerFunc(s.handleTable)))
	mux.Handle("/ui/reload", limited(http.HandlerFunc(s.handleReload)))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	var handler http.Handler = mux
	handler = headers.Middleware(handler)
	handler = detector.Middleware(handler)
	handler = log.RequestIDMiddleware(trace.RequestIDFromRequest)(handler)
	handler = log.Middleware(s.logger)(handler)
	handler = s.traceMiddleware.Middleware(handler)
	s.Handler = handler

	return s
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	w.Header().Set("Retry-After", "60")
	TooManyRequestsError("Too many requests. Please slow down.").Write(w)
}

// Shutdown stops background cleanup and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
