// Package report summarises a fetched record set for the terminal: counts
// per month, optionally narrowed to one year, plus the postings of one
// month.
package report

import (
	"fmt"

	"jobtrend/internal/core"
)

type MonthRow struct {
	Month core.MonthKey `json:"month"`
	Label string        `json:"label"`
	Count int           `json:"count"`
}

type Report struct {
	Source  string   `json:"source"`
	Total   int      `json:"total"`
	Dropped int      `json:"dropped"`
	Years   []string `json:"years"`
	// Year narrows Months when set.
	Year   string     `json:"year,omitempty"`
	Months []MonthRow `json:"months"`
	// Month selects the drill-down; Postings are newest first.
	Month    core.MonthKey    `json:"month,omitempty"`
	Postings []core.JobRecord `json:"postings,omitempty"`
}

// Query picks what the report shows. Both fields are optional.
type Query struct {
	Year  string
	Month string
}

// Validate normalises the query, rejecting malformed values.
func (q Query) Validate() (Query, error) {
	if q.Year != "" {
		y, err := core.ParseYear(q.Year)
		if err != nil {
			return q, fmt.Errorf("--year: %w", err)
		}
		q.Year = y
	}
	if q.Month != "" {
		k, err := core.ParseMonthKey(q.Month)
		if err != nil {
			return q, fmt.Errorf("--month: %w", err)
		}
		q.Month = string(k)
	}
	return q, nil
}

// Build groups records with parser and applies q. q must be validated.
func Build(source string, records []core.JobRecord, parser core.DateParser, q Query) Report {
	agg := parser.Group(records)
	r := Report{
		Source:  source,
		Total:   agg.Total(),
		Dropped: agg.Dropped,
		Years:   append([]string{}, agg.Years...),
		Year:    q.Year,
		Months:  []MonthRow{},
	}

	keys := agg.Months
	if q.Year != "" {
		keys = agg.YearMonths[q.Year]
	}
	for _, k := range keys {
		r.Months = append(r.Months, MonthRow{Month: k, Label: core.FormatMonthKey(k), Count: agg.Count(k)})
	}

	if q.Month != "" {
		r.Month = core.MonthKey(q.Month)
		r.Postings = parser.SortByPublishedDesc(agg.Buckets[r.Month])
		if r.Postings == nil {
			r.Postings = []core.JobRecord{}
		}
	}
	return r
}

// Peak returns the busiest month shown, or false when none is.
func (r Report) Peak() (MonthRow, bool) {
	var best MonthRow
	found := false
	for _, m := range r.Months {
		if !found || m.Count > best.Count {
			best, found = m, true
		}
	}
	return best, found
}
