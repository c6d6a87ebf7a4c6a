package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// ChartKind selects how cleaned data is drawn.
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartPie  ChartKind = "pie"
	ChartLine ChartKind = "line"
)

// ChartKinds lists the kinds in the order they are offered.
var ChartKinds = []ChartKind{ChartBar, ChartPie, ChartLine}

// Palette is cycled through for per-point colors.
var Palette = []string{"#4ade80", "#2dd4bf", "#38bdf8", "#818cf8", "#a78bfa", "#f472b6"}

// ErrInvalidChartKind is returned for anything but bar, pie or line.
var ErrInvalidChartKind = errors.New("invalid chart kind")

// ParseChartKind accepts bar, pie or line, case-insensitively.
func ParseChartKind(s string) (ChartKind, error) {
	k := ChartKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case ChartBar, ChartPie, ChartLine:
		return k, nil
	}
	return "", fmt.Errorf("%w %q (use bar, pie or line)", ErrInvalidChartKind, s)
}

// Title is the label shown on the chart picker.
func (k ChartKind) Title() string {
	switch k {
	case ChartPie:
		return "Grafik Lingkaran"
	case ChartLine:
		return "Grafik Garis"
	default:
		return "Grafik Batang"
	}
}

// ChartPoint is one plotted value.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// ChartSeries is a named sequence of points.
type ChartSeries struct {
	Name   string       `json:"name"`
	Color  string       `json:"color,omitempty"`
	Points []ChartPoint `json:"points"`
}

// ChartConfig is everything a charting library needs to draw cleaned data.
type ChartConfig struct {
	Kind   ChartKind     `json:"kind"`
	Title  string        `json:"title"`
	Series []ChartSeries `json:"series"`
	Colors []string      `json:"colors"`
}

// BuildChart maps cleaned data onto a single series for the given kind.
func BuildChart(kind ChartKind, title string, points []DataPoint) ChartConfig {
	series := ChartSeries{Name: "value", Points: make([]ChartPoint, len(points))}
	switch kind {
	case ChartLine:
		series.Color = "#818cf8"
	case ChartPie:
	default:
		kind = ChartBar
		series.Color = "#2dd4bf"
	}
	for i, p := range points {
		cp := ChartPoint{Label: p.Label, Value: p.Value}
		if kind == ChartPie {
			cp.Color = Palette[i%len(Palette)]
		}
		series.Points[i] = cp
	}
	return ChartConfig{
		Kind:   kind,
		Title:  title,
		Series: []ChartSeries{series},
		Colors: append([]string(nil), Palette...),
	}
}
