package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"jobtrend/internal/dashboard"
	"jobtrend/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(health)
}

// handleReady reports ready once templates are parsed and the first fetch
// cycle has completed successfully.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	res, done := s.loader.Result()
	switch {
	case !done:
		checks["jobs"] = map[string]any{"status": "loading", "cycle": s.loader.Cycle()}
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	case res.Err != nil:
		checks["jobs"] = map[string]any{"status": "failed", "cycle": res.Cycle}
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	default:
		checks["jobs"] = map[string]any{
			"status":  "ok",
			"cycle":   res.Cycle,
			"records": len(res.Records),
			"at":      res.At.Format(time.RFC3339),
		}
	}

	checks["sessions"] = map[string]any{"active": s.sessions.Len(), "status": "ok"}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"rejected":       s.rateLimiter.Rejected(),
		"status":         "ok",
	}

	response := map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(response)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !requireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	_, m := s.session(w, r)
	s.awaitModel(r.Context(), m)
	s.render(w, r, "index.html", m.View(), NewHTMXResponse())
}

// render executes a named template into a buffer so a failure never leaves
// a half-written page behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data dashboard.View, b *HTMXResponseBuilder) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path,
			"error_type", log.ErrorTypeConfiguration)
		InternalServerError("Templates not loaded").Write(w)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.structured.LogError(r.Context(), "Template execution failed", err,
			log.ComponentTemplate, log.OpRender, log.LogFields{"template": name})
		InternalServerError("Error rendering page").Write(w)
		return
	}
	b.BodyHTML(buf.String()).Write(w)
}
