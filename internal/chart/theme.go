package chart

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Theme holds the tunable presentation constants of the chart.
type Theme struct {
	// Breakpoint is the widest viewport, in CSS pixels, still treated as compact.
	Breakpoint int `yaml:"breakpoint"`

	Colors struct {
		Accent      string `yaml:"accent"`
		AccentBG    string `yaml:"accent_bg"`
		AccentHover string `yaml:"accent_hover"`
		GridMuted   string `yaml:"grid_muted"`
	} `yaml:"colors"`

	Height struct {
		Wide       int `yaml:"wide"`
		CompactMin int `yaml:"compact_min"`
		// CompactBase + n*CompactRow, with n at least 1.
		CompactBase int `yaml:"compact_base"`
		CompactRow  int `yaml:"compact_row"`
	} `yaml:"height"`

	Bars struct {
		CompactThickness    int     `yaml:"compact_thickness"`
		CompactMaxThickness int     `yaml:"compact_max_thickness"`
		WideMaxThickness    int     `yaml:"wide_max_thickness"`
		CompactCategory     float64 `yaml:"compact_category"`
		WideCategory        float64 `yaml:"wide_category"`
		BarPercentage       float64 `yaml:"bar_percentage"`
		BorderRadius        int     `yaml:"border_radius"`
	} `yaml:"bars"`

	DatasetLabel string `yaml:"dataset_label"`
}

// DefaultTheme returns the built-in palette and geometry.
func DefaultTheme() Theme {
	var t Theme
	t.Breakpoint = 640
	t.Colors.Accent = "#7c3aed"
	t.Colors.AccentBG = "#7C3AEDB2"
	t.Colors.AccentHover = "#7C3AEDE6"
	t.Colors.GridMuted = "#64748B33"
	t.Height.Wide = 320
	t.Height.CompactMin = 220
	t.Height.CompactBase = 40
	t.Height.CompactRow = 40 + 10
	t.Bars.CompactThickness = 40
	t.Bars.CompactMaxThickness = 42
	t.Bars.WideMaxThickness = 28
	t.Bars.CompactCategory = 0.8
	t.Bars.WideCategory = 0.9
	t.Bars.BarPercentage = 0.9
	t.Bars.BorderRadius = 6
	t.DatasetLabel = "Job Count"
	return t
}

// LoadTheme reads a YAML file over the defaults. Keys absent from the file
// keep their default value.
func LoadTheme(path string) (Theme, error) {
	t := DefaultTheme()
	b, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read theme: %w", err)
	}
	if err := yaml.Unmarshal(b, &t); err != nil {
		return t, fmt.Errorf("parse theme %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate rejects geometry that cannot be rendered.
func (t Theme) Validate() error {
	var errs []string
	if t.Breakpoint < 0 {
		errs = append(errs, fmt.Sprintf("breakpoint %d must not be negative", t.Breakpoint))
	}
	if t.Height.Wide <= 0 || t.Height.CompactMin <= 0 || t.Height.CompactRow <= 0 {
		errs = append(errs, "heights must be positive")
	}
	ratios := []struct {
		name string
		v    float64
	}{
		{"compact_category", t.Bars.CompactCategory},
		{"wide_category", t.Bars.WideCategory},
		{"bar_percentage", t.Bars.BarPercentage},
	}
	for _, r := range ratios {
		if r.v <= 0 || r.v > 1 {
			errs = append(errs, fmt.Sprintf("%s %.2f must be in (0,1]", r.name, r.v))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid theme:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
