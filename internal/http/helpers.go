package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"jobtrend/internal/dashboard"
	"jobtrend/internal/fetch"
)

const sessionCookieName = "jobtrend_session"

var errBadBarIndex = errors.New("invalid bar index")

// session resolves the caller's dashboard Model, issuing a new cookie when
// the presented one is missing or unknown, and makes sure the Model has
// asked for the current fetch cycle.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, *dashboard.Model) {
	presented := ""
	if c, err := r.Cookie(sessionCookieName); err == nil {
		presented = c.Value
	}
	id, m, created := s.sessions.Ensure(presented)
	if created || id != presented {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
	}
	s.ensureLoad(m)
	return id, m
}

// ensureLoad subscribes the Model to the loader once per cycle. A cycle
// that already completed is delivered synchronously.
func (s *Server) ensureLoad(m *dashboard.Model) {
	cycle := s.loader.Cycle()
	if !m.BeginLoad(cycle) {
		return
	}
	cancel := s.loader.Subscribe(func(res fetch.Result) {
		m.FinishLoad(res.Cycle, res.Records, res.Err)
	})
	m.Track(cycle, cancel)
}

// awaitModel gives an in-flight load up to pollWait to finish. The caller
// renders whatever state the Model is in afterwards.
func (s *Server) awaitModel(ctx context.Context, m *dashboard.Model) {
	ctx, cancel := context.WithTimeout(ctx, s.pollWait)
	defer cancel()
	_ = m.Wait(ctx)
}

// formValue reads a trimmed value from the POST body, falling back to the
// query string.
func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// parseWidth returns the viewport width, or false when absent. Widths that
// are not positive integers are rejected.
func parseWidth(raw string) (int, bool, error) {
	if raw == "" {
		return 0, false, nil
	}
	w, err := strconv.Atoi(raw)
	if err != nil || w <= 0 {
		return 0, false, errors.New("invalid width")
	}
	return w, true, nil
}

func parseBarIndex(raw string) (int, error) {
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errBadBarIndex
	}
	return i, nil
}

func requireMethod(w http.ResponseWriter, r *http.Request, allowed ...string) bool {
	for _, m := range allowed {
		if r.Method == m {
			return true
		}
	}
	MethodNotAllowedError(strings.Join(allowed, ", ")).Write(w)
	return false
}
