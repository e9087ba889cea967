package core

import (
	"sort"
	"time"
)

// Aggregation is the month grouping of one fetched record set. It is
// rebuilt in full for every fetch; nothing is merged incrementally.
type Aggregation struct {
	// Buckets keeps records in fetch order within each month.
	Buckets map[MonthKey][]JobRecord
	// Months holds every bucket key, ascending.
	Months []MonthKey
	// Years holds the distinct years of Months, ascending.
	Years []string
	// YearMonths maps a year to its month keys, ascending.
	YearMonths map[string][]MonthKey
	// Dropped counts records without a usable publish date.
	Dropped int
}

// Group partitions records by publish month using DefaultParser.
func Group(records []JobRecord) Aggregation {
	return DefaultParser.Group(records)
}

// Group partitions records by publish month. Records whose date is absent
// or unparseable land in no bucket.
func (p DateParser) Group(records []JobRecord) Aggregation {
	agg := Aggregation{
		Buckets:    make(map[MonthKey][]JobRecord),
		Months:     []MonthKey{},
		Years:      []string{},
		YearMonths: make(map[string][]MonthKey),
	}
	for _, r := range records {
		key, ok := p.MonthKey(r.PublishedAt)
		if !ok {
			agg.Dropped++
			continue
		}
		agg.Buckets[key] = append(agg.Buckets[key], r)
	}

	for key := range agg.Buckets {
		agg.Months = append(agg.Months, key)
	}
	sort.Slice(agg.Months, func(i, j int) bool { return agg.Months[i] < agg.Months[j] })

	// Months is already ascending, so each year's list is built in order.
	for _, key := range agg.Months {
		y := key.Year()
		if _, ok := agg.YearMonths[y]; !ok {
			agg.Years = append(agg.Years, y)
		}
		agg.YearMonths[y] = append(agg.YearMonths[y], key)
	}
	sort.Strings(agg.Years)
	return agg
}

// LatestYear returns the most recent year, or "" when there is none.
func (a Aggregation) LatestYear() string {
	if len(a.Years) == 0 {
		return ""
	}
	return a.Years[len(a.Years)-1]
}

// Count returns the size of a month's bucket.
func (a Aggregation) Count(key MonthKey) int {
	return len(a.Buckets[key])
}

// Total returns the number of grouped records.
func (a Aggregation) Total() int {
	n := 0
	for _, b := range a.Buckets {
		n += len(b)
	}
	return n
}

// DisplayedMonths picks the month keys the chart shows: the active year's
// months in compact mode, every month otherwise or when no year is active.
// The result is a copy.
func DisplayedMonths(class ViewportClass, activeYear string, agg Aggregation) []MonthKey {
	var src []MonthKey
	if class == Compact && activeYear != "" {
		src = agg.YearMonths[activeYear]
	} else {
		src = agg.Months
	}
	out := make([]MonthKey, len(src))
	copy(out, src)
	return out
}

// SortByPublishedDesc returns the records newest first. Records without a
// parseable date count as the earliest instant and keep their relative order.
func (p DateParser) SortByPublishedDesc(records []JobRecord) []JobRecord {
	type keyed struct {
		rec JobRecord
		ts  time.Time
		ok  bool
	}
	items := make([]keyed, len(records))
	for i, r := range records {
		t, ok := p.Parse(r.PublishedAt)
		items[i] = keyed{rec: r, ts: t, ok: ok}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ok != b.ok {
			return a.ok
		}
		return a.ts.After(b.ts)
	})
	out := make([]JobRecord, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}
