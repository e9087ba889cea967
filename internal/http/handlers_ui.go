package http

import (
	"net/http"

	"jobtrend/internal/chart"
	"jobtrend/internal/core"
	"jobtrend/internal/dashboard"
	"jobtrend/internal/log"
)

// chartPayload is the JSON the page feeds to Chart.js, plus the selection
// and load state it needs to decide what to show around the canvas.
type chartPayload struct {
	chart.Config
	Counts        []int    `json:"counts"`
	Viewport      string   `json:"viewport"`
	Years         []string `json:"years"`
	ActiveYear    string   `json:"activeYear"`
	SelectedMonth string   `json:"selectedMonth"`
	Total         int      `json:"total"`
	Loading       bool     `json:"loading"`
	ShowLoadingUI bool     `json:"showLoadingUI"`
	HasLoadedOnce bool     `json:"hasLoadedOnce"`
	Error         string   `json:"error,omitempty"`
}

func newChartPayload(v dashboard.View) chartPayload {
	p := chartPayload{
		Config:        v.Chart,
		Counts:        []int{},
		Viewport:      v.Class.String(),
		Years:         v.Years,
		ActiveYear:    v.ActiveYear,
		SelectedMonth: string(v.SelectedMonth),
		Total:         v.Total,
		Loading:       v.Loading,
		ShowLoadingUI: v.ShowLoadingUI,
		HasLoadedOnce: v.HasLoadedOnce,
		Error:         v.Error,
	}
	if len(v.Chart.Datasets) > 0 {
		p.Counts = v.Chart.Datasets[0].Data
	}
	if p.Years == nil {
		p.Years = []string{}
	}
	return p
}

// handleChart returns the chart for the session. An optional width query
// parameter doubles as a resize notification.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	width, ok, err := parseWidth(formValue(r, "width"))
	if err != nil {
		BadRequestError("Invalid width").Write(w)
		return
	}

	id, m := s.session(w, r)
	if ok {
		s.resize(r, id, m, width)
	}
	s.awaitModel(r.Context(), m)
	NewHTMXResponse().BodyJSON(newChartPayload(m.View())).Write(w)
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	width, ok, err := parseWidth(formValue(r, "width"))
	if err != nil || !ok {
		BadRequestError("Invalid width").Write(w)
		return
	}

	id, m := s.session(w, r)
	s.resize(r, id, m, width)
	NewHTMXResponse().BodyJSON(newChartPayload(m.View())).Write(w)
}

func (s *Server) resize(r *http.Request, id string, m *dashboard.Model, width int) {
	if m.Resize(width) {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Chart rebuilt for viewport",
			log.FieldSessionID, id,
			log.FieldOperation, log.OpResize,
			log.FieldWidth, width)
	}
}

func (s *Server) handleSelectYear(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	year, err := core.ParseYear(formValue(r, "year"))
	if err != nil {
		s.logger.WarnContext(r.Context(), "Rejected year selection",
			log.FieldError, err,
			"error_type", log.ErrorTypeValidation)
		BadRequestError("Invalid year").Write(w)
		return
	}

	id, m := s.session(w, r)
	m.SelectYear(year)
	v := m.View()
	s.structured.LogSelection(r.Context(), id, log.OpSelectYear, v.ActiveYear, string(v.SelectedMonth))

	NewHTMXResponse().
		TriggerChartRefresh().
		TriggerSelectionChanged(v.ActiveYear, string(v.SelectedMonth)).
		BodyJSON(newChartPayload(v)).
		Write(w)
}

// handleSelectMonth does not check the month against the data: an unknown
// month simply shows an empty table.
func (s *Server) handleSelectMonth(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	key, err := core.ParseMonthKey(formValue(r, "month"))
	if err != nil {
		s.logger.WarnContext(r.Context(), "Rejected month selection",
			log.FieldError, err,
			"error_type", log.ErrorTypeValidation)
		BadRequestError("Invalid month").Write(w)
		return
	}

	id, m := s.session(w, r)
	m.SelectMonth(key)
	v := m.View()
	s.structured.LogSelection(r.Context(), id, log.OpSelectMonth, v.ActiveYear, string(v.SelectedMonth))

	s.render(w, r, "table.html", v,
		NewHTMXResponse().TriggerSelectionChanged(v.ActiveYear, string(v.SelectedMonth)))
}

// handleBarClick resolves a chart click by bar index. Indices outside the
// displayed series leave the selection alone.
func (s *Server) handleBarClick(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	index, err := parseBarIndex(formValue(r, "index"))
	if err != nil {
		BadRequestError("Invalid bar index").Write(w)
		return
	}

	id, m := s.session(w, r)
	b := NewHTMXResponse()
	key, ok := m.ClickBar(index)
	v := m.View()
	if ok {
		s.structured.LogSelection(r.Context(), id, log.OpClickBar, v.ActiveYear, string(key))
		b.TriggerSelectionChanged(v.ActiveYear, string(key))
	} else {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Ignored bar click outside series",
			log.FieldSessionID, id,
			log.FieldBarIndex, index)
	}
	s.render(w, r, "table.html", v, b)
}

func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	_, m := s.session(w, r)
	s.awaitModel(r.Context(), m)
	s.render(w, r, "controls.html", m.View(), NewHTMXResponse())
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	_, m := s.session(w, r)
	s.awaitModel(r.Context(), m)
	s.render(w, r, "table.html", m.View(), NewHTMXResponse())
}

// handleReload starts a new fetch cycle. Other sessions join it on their
// next request.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	id, m := s.session(w, r)
	cycle := s.loader.Reload()
	s.ensureLoad(m)

	s.logger.InfoContext(r.Context(), "Job postings reload requested",
		log.FieldSessionID, id,
		log.FieldOperation, log.OpReload,
		log.FieldCycle, cycle)

	NewHTMXResponse().
		Status(http.StatusAccepted).
		TriggerChartRefresh().
		TriggerSelectionChanged("", "").
		TriggerInfoNotification("Reloading job postings").
		Write(w)
}
