// Package chart turns a month series into the option bundle consumed by the
// Chart.js bar chart on the dashboard page.
package chart

import "jobtrend/internal/core"

type (
	// Config is everything the browser needs to draw one chart.
	Config struct {
		Labels   []string  `json:"labels"`
		Datasets []Dataset `json:"datasets"`
		Options  Options   `json:"options"`
		// TickLabels[i] is the display form of Labels[i].
		TickLabels []string `json:"tickLabels"`
		Height     int      `json:"height"`
		Compact    bool     `json:"compact"`
	}

	Dataset struct {
		Label                string  `json:"label"`
		Data                 []int   `json:"data"`
		BackgroundColor      string  `json:"backgroundColor"`
		HoverBackgroundColor string  `json:"hoverBackgroundColor"`
		BorderColor          string  `json:"borderColor"`
		BarThickness         int     `json:"barThickness,omitempty"`
		MaxBarThickness      int     `json:"maxBarThickness"`
		CategoryPercentage   float64 `json:"categoryPercentage"`
		BarPercentage        float64 `json:"barPercentage"`
	}

	Options struct {
		Responsive          bool        `json:"responsive"`
		MaintainAspectRatio bool        `json:"maintainAspectRatio"`
		IndexAxis           string      `json:"indexAxis"`
		Interaction         Interaction `json:"interaction"`
		Plugins             Plugins     `json:"plugins"`
		Layout              Layout      `json:"layout"`
		Scales              Scales      `json:"scales"`
		Elements            Elements    `json:"elements"`
	}

	Interaction struct {
		Mode      string `json:"mode"`
		Intersect bool   `json:"intersect"`
	}

	Plugins struct {
		Legend  Legend  `json:"legend"`
		Tooltip Tooltip `json:"tooltip"`
	}

	Legend struct {
		Display bool `json:"display"`
	}

	Tooltip struct {
		Intersect bool   `json:"intersect"`
		Mode      string `json:"mode"`
		Padding   int    `json:"padding"`
	}

	Layout struct {
		Padding Padding `json:"padding"`
	}

	Padding struct {
		Left   int `json:"left"`
		Right  int `json:"right"`
		Top    int `json:"top"`
		Bottom int `json:"bottom"`
	}

	Scales struct {
		X Axis `json:"x"`
		Y Axis `json:"y"`
	}

	Axis struct {
		BeginAtZero bool  `json:"beginAtZero,omitempty"`
		Offset      bool  `json:"offset,omitempty"`
		Grid        Grid  `json:"grid"`
		Ticks       Ticks `json:"ticks"`
	}

	Grid struct {
		Display bool   `json:"display"`
		Color   string `json:"color,omitempty"`
	}

	Ticks struct {
		StepSize    int    `json:"stepSize,omitempty"`
		Source      string `json:"source,omitempty"`
		AutoSkip    *bool  `json:"autoSkip,omitempty"`
		MinRotation int    `json:"minRotation,omitempty"`
		MaxRotation int    `json:"maxRotation,omitempty"`
		Padding     int    `json:"padding,omitempty"`
		Font        *Font  `json:"font,omitempty"`
		// MonthLabels asks the page to print ticks through TickLabels.
		MonthLabels bool `json:"monthLabels,omitempty"`
	}

	Font struct {
		Weight string `json:"weight"`
	}

	Elements struct {
		Bar BarElement `json:"bar"`
	}

	BarElement struct {
		BorderWidth   int  `json:"borderWidth"`
		BorderRadius  int  `json:"borderRadius"`
		BorderSkipped bool `json:"borderSkipped"`
	}
)

// Classify maps a viewport width to its presentation class. Unknown widths
// (zero or negative) are treated as wide.
func Classify(width, breakpoint int) core.ViewportClass {
	if width > 0 && width <= breakpoint {
		return core.Compact
	}
	return core.Wide
}

// Height returns the container height for n displayed months.
func Height(class core.ViewportClass, n int, t Theme) int {
	if class != core.Compact {
		return t.Height.Wide
	}
	if n < 1 {
		n = 1
	}
	return max(t.Height.CompactMin, t.Height.CompactBase+n*t.Height.CompactRow)
}

// Build assembles the chart config for a series. It is a pure function of
// its arguments.
func Build(s core.Series, class core.ViewportClass, t Theme) Config {
	compact := class == core.Compact
	cfg := Config{
		Labels:     append([]string{}, s.Labels...),
		TickLabels: make([]string, len(s.Labels)),
		Height:     Height(class, s.Len(), t),
		Compact:    compact,
		Options:    BuildOptions(class, t),
	}
	for i, l := range s.Labels {
		cfg.TickLabels[i] = core.FormatMonthKey(core.MonthKey(l))
	}

	ds := Dataset{
		Label:                t.DatasetLabel,
		Data:                 append([]int{}, s.Counts...),
		BackgroundColor:      t.Colors.AccentBG,
		HoverBackgroundColor: t.Colors.AccentHover,
		BorderColor:          t.Colors.Accent,
		BarPercentage:        t.Bars.BarPercentage,
	}
	if compact {
		ds.BarThickness = t.Bars.CompactThickness
		ds.MaxBarThickness = t.Bars.CompactMaxThickness
		ds.CategoryPercentage = t.Bars.CompactCategory
	} else {
		ds.MaxBarThickness = t.Bars.WideMaxThickness
		ds.CategoryPercentage = t.Bars.WideCategory
	}
	cfg.Datasets = []Dataset{ds}
	return cfg
}

// BuildOptions returns the axis, tooltip and layout options for a class.
func BuildOptions(class core.ViewportClass, t Theme) Options {
	noSkip := false
	opts := Options{
		Responsive:          true,
		MaintainAspectRatio: false,
		IndexAxis:           "x",
		Interaction:         Interaction{Mode: "index", Intersect: false},
		Plugins: Plugins{
			Legend:  Legend{Display: false},
			Tooltip: Tooltip{Intersect: false, Mode: "index", Padding: 10},
		},
		Elements: Elements{Bar: BarElement{BorderWidth: 1, BorderRadius: t.Bars.BorderRadius}},
	}

	if class == core.Compact {
		opts.IndexAxis = "y"
		opts.Layout.Padding = Padding{Left: 4, Right: 8, Top: 2, Bottom: 2}
		opts.Scales = Scales{
			X: Axis{
				BeginAtZero: true,
				Grid:        Grid{Display: true, Color: t.Colors.GridMuted},
				Ticks:       Ticks{StepSize: 1},
			},
			Y: Axis{
				Grid:  Grid{Display: false},
				Ticks: Ticks{AutoSkip: &noSkip, MonthLabels: true},
			},
		}
		return opts
	}

	// Extra bottom padding keeps rotated labels from clipping.
	opts.Layout.Padding = Padding{Left: 4, Right: 8, Top: 2, Bottom: 26}
	opts.Scales = Scales{
		X: Axis{
			Offset: true,
			Grid:   Grid{Display: false},
			Ticks: Ticks{
				Source:      "labels",
				AutoSkip:    &noSkip,
				MinRotation: 45,
				MaxRotation: 60,
				Padding:     6,
				Font:        &Font{Weight: "bold"},
				MonthLabels: true,
			},
		},
		Y: Axis{
			BeginAtZero: true,
			Grid:        Grid{Display: true, Color: t.Colors.GridMuted},
			Ticks:       Ticks{StepSize: 1},
		},
	}
	return opts
}

// LabelByTick resolves a tick callback argument to its label: a numeric
// value indexes labels, a string value is used as is, anything else falls
// back to the tick index.
func LabelByTick(labels []string, value any, index int) string {
	switch v := value.(type) {
	case int:
		if v >= 0 && v < len(labels) {
			return labels[v]
		}
	case float64:
		i := int(v)
		if float64(i) == v && i >= 0 && i < len(labels) {
			return labels[i]
		}
	case string:
		return v
	}
	if index >= 0 && index < len(labels) {
		return labels[index]
	}
	return ""
}
