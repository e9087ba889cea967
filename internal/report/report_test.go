package report

import (
	"bytes"
	"strings"
	"testing"

	"jobtrend/internal/core"
)

var sample = []core.JobRecord{
	{Title: "Platform Engineer", Organization: "Acme", PublishedAt: "2023-11-04"},
	{Title: "Data Analyst", Organization: "Globex", PublishedAt: "2024-01-15"},
	{Title: "Go Developer", Organization: "Initech", PublishedAt: "2024-03-02"},
	{Title: "SRE", Organization: "Umbrella", PublishedAt: "2024-03-20"},
	{Title: "Undated", Organization: "Nowhere", PublishedAt: "soon"},
}

func TestQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Query
		wantErr bool
	}{
		{"empty", Query{}, false},
		{"year and month", Query{Year: " 2024 ", Month: "2024-03"}, false},
		{"bad year", Query{Year: "24"}, true},
		{"bad month", Query{Month: "2024-3"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := tt.q.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.q.Year != "" && q.Year != "2024" {
				t.Errorf("year not normalised: %q", q.Year)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	all := Build("memory", sample, core.DefaultParser, Query{})
	if all.Total != 4 || all.Dropped != 1 {
		t.Errorf("total=%d dropped=%d", all.Total, all.Dropped)
	}
	if len(all.Months) != 3 || all.Months[0].Month != "2023-11" {
		t.Fatalf("months = %+v", all.Months)
	}
	if all.Postings != nil {
		t.Error("no month asked, no postings expected")
	}

	scoped := Build("memory", sample, core.DefaultParser, Query{Year: "2024", Month: "2024-03"})
	if len(scoped.Months) != 2 {
		t.Fatalf("2024 months = %+v", scoped.Months)
	}
	if got := scoped.Postings; len(got) != 2 || got[0].Title != "SRE" {
		t.Errorf("postings should be newest first: %+v", got)
	}
	peak, ok := scoped.Peak()
	if !ok || peak.Month != "2024-03" || peak.Count != 2 {
		t.Errorf("peak = %+v", peak)
	}

	empty := Build("memory", sample, core.DefaultParser, Query{Month: "2030-01"})
	if empty.Postings == nil || len(empty.Postings) != 0 {
		t.Errorf("unknown month postings = %#v", empty.Postings)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	r := Build("sqlite", sample, core.DefaultParser, Query{Month: "2024-03"})
	NewPrinter(&buf, false).Render(r)

	out := buf.String()
	for _, want := range []string{
		"Job postings by month (all years, source sqlite)",
		"Nov 2023",
		"Peak: Mar 2024 with 2 postings",
		"Total: 4 dated postings, 1 without a usable date",
		"Postings in Mar 2024",
		"Go Developer",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("colour codes written with colours off")
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).Render(Build("memory", nil, core.DefaultParser, Query{}))
	if !strings.Contains(buf.String(), "[WARN] No dated postings to show") {
		t.Errorf("output = %s", buf.String())
	}
}
