package core

import (
	"fmt"
	"strings"
	"time"
)

// publishedLayouts are tried in order. Anything else is treated as no date.
var publishedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DateParser parses publish dates with a pinned set of layouts in a fixed
// location. Zoned timestamps are converted to Location before the calendar
// month is taken; zoneless ones are read as Location wall time.
type DateParser struct {
	Location *time.Location
}

// DefaultParser reads dates in UTC.
var DefaultParser = DateParser{Location: time.UTC}

func (p DateParser) loc() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// Parse returns the instant of a publish date string, or false when the
// value is blank or not a valid calendar date.
func (p DateParser) Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	loc := p.loc()
	for _, layout := range publishedLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// MonthKey derives the "YYYY-MM" key of a publish date.
func (p DateParser) MonthKey(s string) (MonthKey, bool) {
	t, ok := p.Parse(s)
	if !ok {
		return "", false
	}
	return monthKeyOf(t), true
}

// MonthKeyOf derives the month key of a publish date using DefaultParser.
func MonthKeyOf(published string) (MonthKey, bool) {
	return DefaultParser.MonthKey(published)
}

func monthKeyOf(t time.Time) MonthKey {
	return MonthKey(fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())))
}

// ParseMonthKey validates user supplied "YYYY-MM" input.
func ParseMonthKey(s string) (MonthKey, error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[4] != '-' {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	if _, err := time.Parse("2006-01", s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	return MonthKey(s), nil
}

// ParseYear validates a 4-digit year.
func ParseYear(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return "", fmt.Errorf("%w: %q", ErrInvalidYear, s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidYear, s)
		}
	}
	return s, nil
}

// Year returns the first four characters of the key.
func (k MonthKey) Year() string {
	if len(k) < 4 {
		return string(k)
	}
	return string(k[:4])
}

// InYear reports whether the key belongs to year.
func (k MonthKey) InYear(year string) bool {
	return strings.HasPrefix(string(k), year+"-")
}

// FormatMonthKey renders a key as "Mar 2025". Keys that do not parse are
// returned unchanged.
func FormatMonthKey(k MonthKey) string {
	t, err := time.Parse("2006-01", string(k))
	if err != nil {
		return string(k)
	}
	return t.Format("Jan 2006")
}
