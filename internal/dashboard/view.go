package dashboard

import (
	"jobtrend/internal/chart"
	"jobtrend/internal/core"
)

type (
	// View is a render snapshot; it shares nothing with the Model.
	View struct {
		Chart      chart.Config
		Class      core.ViewportClass
		Years      []string
		ActiveYear string
		// Months lists the tabs of the active year.
		Months        []MonthTab
		SelectedMonth core.MonthKey
		SelectedLabel string
		Rows          []Row
		Total         int
		Dropped       int

		Loading             bool
		ShowLoadingUI       bool
		HasLoadedOnce       bool
		RefetchingSelection bool
		Error               string
	}

	MonthTab struct {
		Key      core.MonthKey
		Label    string
		Count    int
		Selected bool
	}

	// Row is one line of the drill-down table.
	Row struct {
		Title        string
		Organization string
		Location     string
		Published    string
		PublishedISO string
	}
)

func (m *Model) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		Chart:               m.config,
		Class:               m.class,
		Years:               append([]string{}, m.agg.Years...),
		ActiveYear:          m.activeYear,
		SelectedMonth:       m.selected,
		Total:               m.agg.Total(),
		Dropped:             m.agg.Dropped,
		Loading:             m.loading,
		ShowLoadingUI:       m.showLoadingUI,
		HasLoadedOnce:       m.hasLoadedOnce,
		RefetchingSelection: m.loading && m.selected != "" && m.hasLoadedOnce,
		Error:               m.errMsg,
	}
	if m.selected != "" {
		v.SelectedLabel = core.FormatMonthKey(m.selected)
	}
	for _, k := range m.agg.YearMonths[m.activeYear] {
		v.Months = append(v.Months, MonthTab{
			Key:      k,
			Label:    core.FormatMonthKey(k),
			Count:    m.agg.Count(k),
			Selected: k == m.selected,
		})
	}
	for _, r := range m.selectedRecords() {
		v.Rows = append(v.Rows, m.row(r))
	}
	return v
}

func (m *Model) row(r core.JobRecord) Row {
	row := Row{
		Title:        r.Title,
		Organization: r.Organization,
		Location:     r.Location,
		Published:    r.PublishedAt,
	}
	if t, ok := m.opts.Parser.Parse(r.PublishedAt); ok {
		row.Published = t.Format("2 Jan 2006")
		row.PublishedISO = t.Format("2006-01-02")
	}
	return row
}
