// Package dashboard holds the per-viewer state of the job trends page:
// the grouped data, the year and month selection, the viewport class and
// the chart built from them.
package dashboard

import (
	"context"
	"sync"
	"time"

	"jobtrend/internal/chart"
	"jobtrend/internal/core"
)

// LoadErrorMessage is the only failure text shown to viewers.
const LoadErrorMessage = "Failed to load jobs. Please try again."

type Options struct {
	Parser       core.DateParser
	Theme        chart.Theme
	LoadingGrace time.Duration
}

func (o Options) withDefaults() Options {
	if o.Parser.Location == nil {
		o.Parser = core.DefaultParser
	}
	// A breakpoint of 0 is valid; a theme without heights was never set.
	if o.Theme.Height.Wide == 0 {
		o.Theme = chart.DefaultTheme()
	}
	if o.LoadingGrace <= 0 {
		o.LoadingGrace = DefaultLoadingGrace
	}
	return o
}

// Model is safe for concurrent use.
type Model struct {
	mu   sync.Mutex
	opts Options

	records    []core.JobRecord
	agg        core.Aggregation
	activeYear string
	selected   core.MonthKey
	class      core.ViewportClass
	series     core.Series
	// config is replaced, never mutated, so View may hand it out.
	config   chart.Config
	rebuilds int

	cycle         uint64
	loading       bool
	showLoadingUI bool
	hasLoadedOnce bool
	errMsg        string
	gate          *LoadingGate
	done          chan struct{}
	unsubscribe   func()
}

func NewModel(opts Options) *Model {
	m := &Model{opts: opts.withDefaults()}
	m.agg = m.opts.Parser.Group(nil)
	m.rebuildSeries()
	return m
}

// Load replaces the data set. The aggregation is rebuilt from scratch and
// the active year defaults to the latest year when none is set.
func (m *Model) Load(records []core.JobRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.load(records)
}

func (m *Model) load(records []core.JobRecord) {
	m.records = append([]core.JobRecord(nil), records...)
	m.agg = m.opts.Parser.Group(m.records)
	if m.activeYear == "" {
		m.activeYear = m.agg.LatestYear()
	}
	m.rebuildSeries()
	m.hasLoadedOnce = true
}

// SelectYear focuses year. A selected month from another year is cleared.
func (m *Model) SelectYear(year string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if year == m.activeYear {
		return
	}
	m.activeYear = year
	if m.selected != "" && !m.selected.InYear(year) {
		m.selected = ""
	}
	m.rebuildSeries()
}

// SelectMonth sets the selected month as given. A month with no bucket
// yields an empty table.
func (m *Model) SelectMonth(key core.MonthKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = key
}

// ClickBar selects the month at index of the displayed series. Indices
// outside the series are ignored.
func (m *Model) ClickBar(index int) (core.MonthKey, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.series.KeyAt(index)
	if !ok {
		return "", false
	}
	m.selected = key
	return key, true
}

// Resize reclassifies the viewport. The series is rebuilt only when the
// displayed months change; it reports whether that happened.
func (m *Model) Resize(width int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.class = chart.Classify(width, m.opts.Theme.Breakpoint)

	keys := core.DisplayedMonths(m.class, m.activeYear, m.agg)
	rebuilt := false
	if !m.series.Matches(keys) {
		m.series = core.BuildSeries(keys, m.agg.Buckets)
		m.rebuilds++
		rebuilt = true
	}
	m.config = chart.Build(m.series, m.class, m.opts.Theme)
	return rebuilt
}

func (m *Model) rebuildSeries() {
	keys := core.DisplayedMonths(m.class, m.activeYear, m.agg)
	m.series = core.BuildSeries(keys, m.agg.Buckets)
	m.rebuilds++
	m.config = chart.Build(m.series, m.class, m.opts.Theme)
}

// SelectedRecords returns the selected month's records, newest first.
func (m *Model) SelectedRecords() []core.JobRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectedRecords()
}

func (m *Model) selectedRecords() []core.JobRecord {
	if m.selected == "" {
		return []core.JobRecord{}
	}
	return m.opts.Parser.SortByPublishedDesc(m.agg.Buckets[m.selected])
}

// BeginLoad marks the start of fetch cycle. It returns false when the
// model already began or finished that cycle.
func (m *Model) BeginLoad(cycle uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cycle <= m.cycle {
		return false
	}
	m.cycle = cycle
	m.errMsg = ""
	m.loading = true
	m.showLoadingUI = false
	m.gate.Stop()
	if m.done == nil {
		m.done = make(chan struct{})
	}
	var gate *LoadingGate
	gate = StartLoadingGate(m.opts.LoadingGrace, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.loading && m.gate == gate {
			m.showLoadingUI = true
		}
	})
	m.gate = gate
	return true
}

// FinishLoad applies the outcome of a cycle. Results older than the
// current cycle are ignored. On failure prior data is left as it was.
func (m *Model) FinishLoad(cycle uint64, records []core.JobRecord, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cycle < m.cycle {
		return
	}
	m.cycle = cycle
	if err != nil {
		m.errMsg = LoadErrorMessage
	} else {
		m.load(records)
	}
	m.stopLoading()
}

// Track keeps cancel, which withdraws the pending subscription for cycle,
// until that cycle finishes. Close calls it.
func (m *Model) Track(cycle uint64, cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loading || cycle != m.cycle {
		return
	}
	m.unsubscribe = cancel
}

func (m *Model) stopLoading() {
	m.unsubscribe = nil
	m.loading = false
	m.gate.Stop()
	m.gate = nil
	m.showLoadingUI = false
	if m.done != nil {
		close(m.done)
		m.done = nil
	}
}

// Wait blocks until no load is in progress or ctx ends.
func (m *Model) Wait(ctx context.Context) error {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops a pending loading gate and withdraws the model from the
// load it is waiting on.
func (m *Model) Close() {
	m.mu.Lock()
	m.gate.Stop()
	cancel := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (m *Model) Cycle() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cycle
}
