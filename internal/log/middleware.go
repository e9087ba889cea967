package log

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey struct{}

// Middleware puts logger into every request context.
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), logger)))
		})
	}
}

// RequestIDMiddleware stamps the context logger with the id extractRequestID
// reports. It must run inside Middleware and after the id is assigned.
func RequestIDMiddleware(extractRequestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := extractRequestID(r)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			logger := FromContext(r.Context()).With(FieldRequestID, id)
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), logger)))
		})
	}
}

func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the request logger, or one over slog.Default with
// component "unknown" outside a request.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// StructuredLogger writes the dashboard's recurring log lines with a fixed
// field set. Inside a request it logs through the context logger so the
// request id is carried along.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

func (sl *StructuredLogger) from(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return sl.logger
}

// LogSelection logs a dashboard selection change.
func (sl *StructuredLogger) LogSelection(ctx context.Context, sessionID, operation, year, month string) {
	fields := NewFields().
		WithSessionID(sessionID).
		WithSelection(year, month).
		WithOperation(operation)

	sl.from(ctx).WithComponent(ComponentDashboard).DebugContext(ctx, "Dashboard selection changed", fields.ToSlice()...)
}

// LogError logs err with its component and operation; fields may be nil.
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	all := fields.
		WithError(err).
		WithOperation(operation)

	sl.from(ctx).WithComponent(component).ErrorContext(ctx, msg, all.ToSlice()...)
}
