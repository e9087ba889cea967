package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"jobtrend/internal/core"
	"jobtrend/internal/dashboard"
	"jobtrend/internal/fetch"
	"jobtrend/internal/jobs/memory"
)

var fixtureRecords = []core.JobRecord{
	{Title: "Platform Engineer", Organization: "Acme", Location: "Berlin", PublishedAt: "2023-11-04"},
	{Title: "Data Analyst", Organization: "Globex", Location: "Remote", PublishedAt: "2024-01-15T09:00:00Z"},
	{Title: "Go Developer", Organization: "Initech", Location: "Milan", PublishedAt: "2024-03-02"},
	{Title: "SRE", Organization: "Umbrella", Location: "Paris", PublishedAt: "2024-03-20"},
	{Title: "Undated", Organization: "Nowhere", Location: "", PublishedAt: ""},
}

type testEnv struct {
	srv    *Server
	store  *memory.Store
	loader *fetch.Loader
}

func newTestEnv(t *testing.T, records []core.JobRecord) *testEnv {
	t.Helper()
	store := memory.New(records)
	loader := fetch.New(store, fetch.Options{SourceName: "memory"})
	sessions := dashboard.NewSessions(100, time.Minute, dashboard.Options{})
	srv := NewServer(":0", loader, sessions, Options{PollWait: 2 * time.Second})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return &testEnv{srv: srv, store: store, loader: loader}
}

// client carries the session cookie between requests like a browser would.
type client struct {
	t      *testing.T
	srv    *Server
	cookie *http.Cookie
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, srv: e.srv}
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rr := httptest.NewRecorder()
	c.srv.Handler.ServeHTTP(rr, req)
	for _, ck := range rr.Result().Cookies() {
		if ck.Name == sessionCookieName {
			c.cookie = ck
		}
	}
	return rr
}

func (c *client) chart(path string) chartPayload {
	c.t.Helper()
	rr := c.do(http.MethodGet, path, nil)
	if rr.Code != http.StatusOK {
		c.t.Fatalf("GET %s status=%d body=%s", path, rr.Code, rr.Body.String())
	}
	var p chartPayload
	if err := json.Unmarshal(rr.Body.Bytes(), &p); err != nil {
		c.t.Fatalf("decode chart payload: %v", err)
	}
	return p
}

func TestIndexAndHealth(t *testing.T) {
	env := newTestEnv(t, fixtureRecords)
	c := env.client(t)

	rr := c.do(http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("index status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Job postings by month") {
		t.Fatalf("index body missing heading")
	}
	if !strings.Contains(body, `hx-post="/ui/year"`) {
		t.Errorf("index body missing year tabs")
	}
	if c.cookie == nil || c.cookie.Value == "" {
		t.Fatal("index did not issue a session cookie")
	}
	if !c.cookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := c.do(http.MethodGet, path, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d body=%s", path, rr.Code, rr.Body.String())
		}
	}

	rr = c.do(http.MethodGet, "/nope", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown path status=%d, want 404", rr.Code)
	}
}

func TestReadyReportsFailedFetch(t *testing.T) {
	env := newTestEnv(t, nil)
	env.store.SetError(errors.New("upstream down"))
	if _, err := env.loader.Await(context.Background()); err != nil {
		t.Fatalf("await: %v", err)
	}

	rr := env.client(t).do(http.MethodGet, "/readyz", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz status=%d, want 503", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"failed"`) {
		t.Errorf("readyz body = %s", rr.Body.String())
	}
}

func TestChartWideAndCompact(t *testing.T) {
	env := newTestEnv(t, fixtureRecords)
	c := env.client(t)

	wide := c.chart("/ui/chart?width=1280")
	if got, want := strings.Join(wide.Labels, ","), "2023-11,2024-01,2024-03"; got != want {
		t.Fatalf("wide labels = %s, want %s", got, want)
	}
	if got := wide.Counts; len(got) != 3 || got[2] != 2 {
		t.Fatalf("wide counts = %v", got)
	}
	if wide.Compact || wide.Viewport != "wide" {
		t.Errorf("expected wide viewport, got %q", wide.Viewport)
	}
	if wide.ActiveYear != "2024" {
		t.Errorf("active year = %q, want 2024", wide.ActiveYear)
	}
	if got := strings.Join(wide.Years, ","); got != "2023,2024" {
		t.Errorf("years = %s", got)
	}
	if wide.TickLabels[0] != "Nov 2023" {
		t.Errorf("tick label = %q", wide.TickLabels[0])
	}

	compact := c.chart("/ui/chart?width=375")
	if got := strings.Join(compact.Labels, ","); got != "2024-01,2024-03" {
		t.Fatalf("compact labels = %s", got)
	}
	if !compact.Compact || compact.Options.IndexAxis != "y" {
		t.Errorf("expected horizontal compact chart, got indexAxis=%q", compact.Options.IndexAxis)
	}

	rr := c.do(http.MethodGet, "/ui/chart?width=abc", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad width status=%d, want 400", rr.Code)
	}
}

func TestViewportNotification(t *testing.T) {
	env := newTestEnv(t, fixtureRecords)
	c := env.client(t)
	c.chart("/ui/chart")

	rr := c.do(http.MethodPost, "/ui/viewport", url.Values{"width": {"320"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("viewport status=%d", rr.Code)
	}
	var p chartPayload
	if err := json.Unmarshal(rr.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !p.Compact {
		t.Error("320px viewport should be compact")
	}

	rr = c.do(http.MethodPost, "/ui/viewport", url.Values{})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing width status=%d, want 400", rr.Code)
	}
}

func TestSelectYear(t *testing.T) {
	env := newTestEnv(t, fixtureRecords)
	c := env.client(t)
	c.chart("/ui/chart?width=375")

	rr := c.do(http.MethodPost, "/ui/year", url.Values{"year": {"2023"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("year status=%d body=%s", rr.Code, rr.Body.String())
	}
	trigger := rr.Header().Get("HX-Trigger")
	for _, ev := range []string{EventChartRefresh, EventSelectionChanged} {
		if !strings.Contains(trigger, ev) {
			t.Errorf("HX-Trigger %q missing %s", trigger, ev)
		}
	}
	var p chartPayload
	if err := json.Unmarshal(rr.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.ActiveYear != "2023" || strings.Join(p.Labels, ",") != "2023-11" {
		t.Errorf("after year select: activeYear=%q labels=%v", p.ActiveYear, p.Labels)
	}

	for _, bad := range []string{"", "23", "20x4", "<script>"} {
		rr := c.do(http.MethodPost, "/ui/year", url.Values{"year": {bad}})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("year %q status=%d, want 400", bad, rr.Code)
		}
	}

	rr = c.do(http.MethodGet, "/ui/year", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /ui/year status=%d, want 405", rr.Code)
	}
	if rr.Header().Get("Allow") != "POST" {
		t.Errorf("Allow = %q", rr.Header().Get("Allow"))
	}
}

func TestSelectMonthRendersTable(t *testing.T) {
	env := newTestEnv(t, fixtureRecords)
	c := env.client(t)
	c.chart("/ui/chart")

	rr := c.do(http.MethodPost, "/ui/month", url.Values{"month": {"2024-03"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("month status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"Go Developer", "SRE", "Mar 2024", `datetime="2024-03-02"`} {
		if !strings.Contains(body, want) {
			t.Errorf("table missing %q", want)
		}
	}
	if strings.Contains(body, "Data Analyst") {
		t.Error("table leaked a record from another month")
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), EventSelectionChanged) {
		t.Error("month selection should raise the selection event")
	}

	rr = c.do(http.MethodPost, "/ui/month", url.Values{"month": {"2030-01"}})
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "No postings for this month.") {
		t.Errorf("unknown month: status=%d body=%s", rr.Code, rr.Body.String())
	}

	for _, bad := range []string{"2024-13", "2024/03", "March"} {
		rr := c.do(http.MethodPost, "/ui/month", url.Values{"month": {bad}})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("month %q status=%d, want 400", bad, rr.Code)
		}
	}
}

func TestBarClick(t *testing.T) {
	env := newTestEnv(t, fixtureRecords)
	c := env.client(t)
	c.chart("/ui/chart?width=1280")

	rr := c.do(http.MethodPost, "/ui/bar", url.Values{"index": {"1"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("bar status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Data Analyst") {
		t.Errorf("bar 1 should select Jan 2024: %s", rr.Body.String())
	}

	rr = c.do(http.MethodPost, "/ui/bar", url.Values{"index": {"99"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("out of range bar status=%d", rr.Code)
	}
	if rr.Header().Get("HX-Trigger") != "" {
		t.Error("ignored click should not raise events")
	}
	if !strings.Contains(rr.Body.String(), "Data Analyst") {
		t.Error("ignored click should keep the previous selection")
	}

	rr = c.do(http.MethodPost, "/ui/bar", url.Values{"index": {"first"}})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("non-numeric index status=%d, want 400", rr.Code)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t, fixtureRecords)
	a, b := env.client(t), env.client(t)
	a.chart("/ui/chart")
	b.chart("/ui/chart")

	if rr := a.do(http.MethodPost, "/ui/year", url.Values{"year": {"2023"}}); rr.Code != http.StatusOK {
		t.Fatalf("year status=%d", rr.Code)
	}
	if got := b.chart("/ui/chart").ActiveYear; got != "2024" {
		t.Errorf("other session's year = %q, want 2024", got)
	}
	if a.cookie.Value == b.cookie.Value {
		t.Error("clients share a session id")
	}
	if calls := env.store.Calls(); calls != 1 {
		t.Errorf("source fetched %d times, want 1", calls)
	}
}

func TestFetchFailureShowsGenericError(t *testing.T) {
	env := newTestEnv(t, nil)
	env.store.SetError(errors.New("connection refused"))
	c := env.client(t)

	rr := c.do(http.MethodGet, "/ui/table", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("table status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, dashboard.LoadErrorMessage) {
		t.Errorf("table missing error banner: %s", body)
	}
	if strings.Contains(body, "connection refused") {
		t.Error("error cause leaked to the page")
	}

	p := c.chart("/ui/chart")
	if p.Error != dashboard.LoadErrorMessage || len(p.Labels) != 0 {
		t.Errorf("chart after failure: error=%q labels=%v", p.Error, p.Labels)
	}
}

func TestReloadStartsNewCycle(t *testing.T) {
	env := newTestEnv(t, fixtureRecords[:2])
	c := env.client(t)
	if got := len(c.chart("/ui/chart").Labels); got != 2 {
		t.Fatalf("initial labels = %d", got)
	}

	env.store.Replace(fixtureRecords)
	rr := c.do(http.MethodPost, "/ui/reload", nil)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("reload status=%d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), EventChartRefresh) {
		t.Error("reload should ask for a chart refresh")
	}

	p := c.chart("/ui/chart")
	if p.Loading {
		t.Fatal("reload did not complete within the poll wait")
	}
	if got := len(p.Labels); got != 3 {
		t.Errorf("labels after reload = %d, want 3", got)
	}
	if calls := env.store.Calls(); calls != 2 {
		t.Errorf("source fetched %d times, want 2", calls)
	}
}

func TestControlsPartial(t *testing.T) {
	env := newTestEnv(t, fixtureRecords)
	c := env.client(t)

	rr := c.do(http.MethodGet, "/ui/controls", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("controls status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"2023", "2024", "Jan 2024", "Mar 2024"} {
		if !strings.Contains(body, want) {
			t.Errorf("controls missing %q", want)
		}
	}
	if strings.Contains(body, "Nov 2023") {
		t.Error("month tabs should only list the active year")
	}
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	env := newTestEnv(t, fixtureRecords)
	rr := env.client(t).do(http.MethodGet, "/healthz", nil)

	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}
	if rr.Header().Get("Content-Security-Policy") == "" {
		t.Error("missing CSP header")
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing request id")
	}
}

func TestStaticAssets(t *testing.T) {
	env := newTestEnv(t, nil)
	rr := env.client(t).do(http.MethodGet, "/static/dashboard.js", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("static status=%d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Cache-Control"), "max-age=3600") {
		t.Errorf("Cache-Control = %q", rr.Header().Get("Cache-Control"))
	}
}
