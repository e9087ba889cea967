// Package fetch owns the single shared request for job postings. Every
// consumer within a cycle sees the same completed result or the same
// failure, and the source is hit at most once per cycle.
package fetch

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"jobtrend/internal/core"
	"jobtrend/internal/jobs"
	applog "jobtrend/internal/log"
	"jobtrend/internal/metrics"
)

// Result is the terminal outcome of one cycle.
type Result struct {
	Cycle   uint64
	Records []core.JobRecord
	Err     error
	At      time.Time
}

// Summary describes a completed cycle for notification.
type Summary struct {
	Source  string
	Cycle   uint64
	Records int
	Dropped int
	Months  int
	Failed  bool
	At      time.Time
}

type Notifier interface {
	NotifyLoaded(ctx context.Context, s Summary) error
}

type Options struct {
	// SourceName labels metrics and notifications.
	SourceName string
	// Timeout bounds the upstream request. Zero means no limit.
	Timeout  time.Duration
	Parser   core.DateParser
	Notifier Notifier
}

type Loader struct {
	src  jobs.Source
	opts Options

	group singleflight.Group

	mu        sync.Mutex
	cycle     uint64
	result    *Result
	observers []observer
	nextID    uint64
}

type observer struct {
	id uint64
	fn func(Result)
}

func New(src jobs.Source, opts Options) *Loader {
	if opts.SourceName == "" {
		opts.SourceName = "jobs"
	}
	if opts.Parser.Location == nil {
		opts.Parser = core.DefaultParser
	}
	return &Loader{src: src, opts: opts, cycle: 1}
}

// Cycle returns the current cycle number. It starts at 1.
func (l *Loader) Cycle() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cycle
}

// Result returns the completed result of the current cycle, if any.
func (l *Loader) Result() (Result, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.result == nil {
		return Result{}, false
	}
	return l.copyResult(), true
}

func (l *Loader) copyResult() Result {
	r := *l.result
	if r.Records != nil {
		r.Records = slices.Clone(r.Records)
	}
	return r
}

// Start triggers the current cycle without waiting for it.
func (l *Loader) Start() {
	if _, ok := l.Result(); ok {
		return
	}
	l.trigger()
}

// Await returns the current cycle's result, triggering the request on
// first use. Only ctx ending early produces a non-nil error; the fetch
// outcome is in Result.Err. An abandoned wait does not cancel the request.
func (l *Loader) Await(ctx context.Context) (Result, error) {
	if r, ok := l.Result(); ok {
		return r, nil
	}
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case res := <-l.trigger():
		r := res.Val.(Result)
		if r.Records != nil {
			r.Records = slices.Clone(r.Records)
		}
		return r, nil
	}
}

// Jobs returns the records of the current cycle or its failure.
func (l *Loader) Jobs(ctx context.Context) ([]core.JobRecord, error) {
	r, err := l.Await(ctx)
	if err != nil {
		return nil, err
	}
	return r.Records, r.Err
}

// Subscribe registers fn to receive the current cycle's result exactly
// once. If the cycle has already completed fn runs before Subscribe
// returns; otherwise the request is triggered and fn runs on completion.
// The returned func withdraws fn if it has not run yet.
func (l *Loader) Subscribe(fn func(Result)) (cancel func()) {
	l.mu.Lock()
	if l.result != nil {
		r := l.copyResult()
		l.mu.Unlock()
		fn(r)
		return func() {}
	}
	l.nextID++
	id := l.nextID
	l.observers = append(l.observers, observer{id: id, fn: fn})
	l.mu.Unlock()
	l.trigger()
	return func() { l.unsubscribe(id) }
}

func (l *Loader) unsubscribe(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = slices.DeleteFunc(l.observers, func(o observer) bool { return o.id == id })
}

// Waiting returns the number of observers not yet notified.
func (l *Loader) Waiting() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.observers)
}

// Reload drops the cached result and opens a new cycle. The request for
// it is issued by the next Await, Jobs, Subscribe or Start, or right away
// when observers of the old cycle are still waiting; they receive the new
// cycle's result instead.
func (l *Loader) Reload() uint64 {
	l.mu.Lock()
	l.cycle++
	l.result = nil
	cycle, waiting := l.cycle, len(l.observers)
	l.mu.Unlock()

	slog.Info("Job fetch cycle reset", "cycle", cycle, "waiting", waiting)
	if waiting > 0 {
		l.trigger()
	}
	return cycle
}

func (l *Loader) trigger() <-chan singleflight.Result {
	l.mu.Lock()
	cycle := l.cycle
	l.mu.Unlock()
	return l.group.DoChan(strconv.FormatUint(cycle, 10), func() (any, error) {
		return l.run(cycle), nil
	})
}

func (l *Loader) run(cycle uint64) Result {
	l.mu.Lock()
	if l.result != nil && l.result.Cycle == cycle {
		r := *l.result
		l.mu.Unlock()
		return r
	}
	l.mu.Unlock()

	ctx := context.Background()
	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	records, err := l.src.FetchJobs(ctx)
	elapsed := time.Since(start)
	res := Result{Cycle: cycle, At: time.Now()}
	if err != nil {
		res.Err = err
	} else {
		res.Records = core.SanitizeAll(records)
	}

	metrics.RecordFetch(l.opts.SourceName, err, elapsed.Seconds())
	summary := Summary{Source: l.opts.SourceName, Cycle: cycle, Failed: err != nil, At: res.At}
	if err == nil {
		agg := l.opts.Parser.Group(res.Records)
		summary.Records = len(res.Records)
		summary.Dropped = agg.Dropped
		summary.Months = len(agg.Months)
		metrics.RecordDataset(summary.Records, summary.Dropped)
		slog.Info("Jobs loaded",
			applog.FieldSource, l.opts.SourceName,
			applog.FieldCycle, cycle,
			applog.FieldRecords, summary.Records,
			"months", summary.Months,
			"dropped", summary.Dropped,
			applog.FieldDuration, elapsed.Milliseconds())
	} else {
		slog.Error("Job fetch failed",
			applog.FieldSource, l.opts.SourceName,
			applog.FieldCycle, cycle,
			applog.FieldError, err,
			applog.FieldDuration, elapsed.Milliseconds())
	}

	l.mu.Lock()
	if cycle != l.cycle {
		// Reloaded while in flight; this outcome belongs to nobody.
		l.mu.Unlock()
		slog.Debug("Discarding stale fetch result", "cycle", cycle)
		return res
	}
	l.result = &res
	observers := l.observers
	l.observers = nil
	l.mu.Unlock()

	for _, o := range observers {
		r := res
		if r.Records != nil {
			r.Records = slices.Clone(r.Records)
		}
		o.fn(r)
	}
	if l.opts.Notifier != nil {
		if err := l.opts.Notifier.NotifyLoaded(context.Background(), summary); err != nil {
			slog.Warn("Failed to publish load notification", "cycle", cycle, "error", err)
		}
	}
	return res
}
