package core

import (
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const (
	Wide    ViewportClass = iota // desktop: vertical bars, rotated labels
	Compact                      // narrow: horizontal bars, year-scoped data
)

type (
	// MonthKey identifies a publication month as "YYYY-MM".
	MonthKey string

	// ViewportClass is the presentation variant chosen from the viewport width.
	ViewportClass int

	// JobRecord is one job posting as published by the job source.
	JobRecord struct {
		Title        string `json:"websiteTitle"`
		Organization string `json:"websiteOrganization"`
		Location     string `json:"websiteLocation"`
		PublishedAt  string `json:"websiteDatePublished"`
	}
)

var (
	ErrInvalidMonthKey = errors.New("invalid month key")
	ErrInvalidYear     = errors.New("invalid year")
)

var textPolicy = bluemonday.StrictPolicy()

func (c ViewportClass) String() string {
	if c == Compact {
		return "compact"
	}
	return "wide"
}

// Sanitized returns a copy with markup stripped from the display fields.
// PublishedAt is only trimmed; it is parsed, never displayed raw.
func (j JobRecord) Sanitized() JobRecord {
	return JobRecord{
		Title:        cleanText(j.Title),
		Organization: cleanText(j.Organization),
		Location:     cleanText(j.Location),
		PublishedAt:  strings.TrimSpace(j.PublishedAt),
	}
}

// SanitizeAll applies Sanitized to every record, preserving order.
func SanitizeAll(records []JobRecord) []JobRecord {
	out := make([]JobRecord, len(records))
	for i, r := range records {
		out[i] = r.Sanitized()
	}
	return out
}

// bluemonday escapes what it keeps; templates escape again on output.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
