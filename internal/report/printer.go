package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"jobtrend/internal/core"
)

// ResolveColors honours NO_COLOR and dumb terminals unless forced.
func ResolveColors(noColor bool) bool {
	if noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// Printer handles formatted output to the terminal
type Printer struct {
	out       io.Writer
	useColors bool
}

func NewPrinter(out io.Writer, useColors bool) *Printer {
	return &Printer{out: out, useColors: useColors}
}

func (p *Printer) Header(format string, args ...any) {
	if p.useColors {
		color.New(color.FgHiWhite, color.Bold).Fprintf(p.out, format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, "== "+format+" ==\n", args...)
	}
}

func (p *Printer) Info(format string, args ...any) {
	if p.useColors {
		color.New(color.FgCyan).Fprintf(p.out, format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, format+"\n", args...)
	}
}

func (p *Printer) Success(format string, args ...any) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
	}
}

func (p *Printer) Warning(format string, args ...any) {
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.out, "⚠ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, "[WARN] "+format+"\n", args...)
	}
}

func (p *Printer) bold(s string) string {
	if !p.useColors {
		return s
	}
	return color.New(color.Bold).Sprint(s)
}

// Table prints rows under headers without borders.
func (p *Printer) Table(headers []string, rows [][]string) {
	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header(headers)
	table.Bulk(rows)
	table.Render()
}

// barWidth caps the histogram column.
const barWidth = 30

// Render prints the month table and, when a month was asked for, its
// postings.
func (p *Printer) Render(r Report) {
	scope := "all years"
	if r.Year != "" {
		scope = r.Year
	}
	p.Header("Job postings by month (%s, source %s)", scope, r.Source)

	if len(r.Months) == 0 {
		p.Warning("No dated postings to show")
	} else {
		peak, _ := r.Peak()
		rows := make([][]string, 0, len(r.Months))
		for _, m := range r.Months {
			bar := ""
			if peak.Count > 0 {
				bar = strings.Repeat("█", max(1, m.Count*barWidth/peak.Count))
			}
			label := m.Label
			if m.Month == r.Month {
				label = p.bold(label)
			}
			rows = append(rows, []string{string(m.Month), label, strconv.Itoa(m.Count), bar})
		}
		p.Table([]string{"MONTH", "LABEL", "POSTINGS", ""}, rows)
		fmt.Fprintln(p.out)
		p.Info("Peak: %s with %d postings", peak.Label, peak.Count)
	}
	p.Info("Total: %d dated postings, %d without a usable date", r.Total, r.Dropped)

	if r.Month == "" {
		return
	}
	fmt.Fprintln(p.out)
	p.Header("Postings in %s", core.FormatMonthKey(r.Month))
	if len(r.Postings) == 0 {
		p.Warning("No postings for this month")
		return
	}
	rows := make([][]string, 0, len(r.Postings))
	for _, j := range r.Postings {
		rows = append(rows, []string{j.Title, j.Organization, j.Location, j.PublishedAt})
	}
	p.Table([]string{"TITLE", "ORGANIZATION", "LOCATION", "PUBLISHED"}, rows)
}
