package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrEmptyData is returned when statistics are requested for no values.
var ErrEmptyData = errors.New("no clean data to describe")

// NoMode is how a set without a repeated value is reported.
const NoMode = "Tidak ada"

// Summary holds the descriptive statistics shown in the processing step.
type Summary struct {
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	// MedianAveraged is true when Median is the average of the two middle values.
	MedianAveraged bool `json:"median_averaged"`
	// Modes is empty when every value is distinct.
	Modes []float64 `json:"modes"`
	Min   float64   `json:"min"`
	Max   float64   `json:"max"`
}

// Describe computes mean, median and mode over points. points must be non-empty.
func Describe(points []DataPoint) (Summary, error) {
	if len(points) == 0 {
		return Summary{}, ErrEmptyData
	}
	values := make([]float64, len(points))
	var sum float64
	for i, p := range points {
		values[i] = p.Value
		sum += p.Value
	}
	sort.Float64s(values)

	s := Summary{
		Count: len(values),
		Sum:   sum,
		Mean:  sum / float64(len(values)),
		Min:   values[0],
		Max:   values[len(values)-1],
	}
	s.Median = quantile(values, 0.5)
	s.MedianAveraged = len(values)%2 == 0
	s.Modes = modes(values)
	return s, nil
}

// modes scans sorted values keeping the running max frequency and the values that reach it.
// Ties come out in scan order. A set with no repeated value has no mode.
func modes(sorted []float64) []float64 {
	counts := make(map[float64]int, len(sorted))
	maxCount := 0
	var out []float64
	for _, v := range sorted {
		counts[v]++
		switch c := counts[v]; {
		case c > maxCount:
			maxCount = c
			out = []float64{v}
		case c == maxCount:
			out = append(out, v)
		}
	}
	if len(counts) == len(sorted) {
		return nil
	}
	return out
}

// HasMode reports whether at least one value repeats.
func (s Summary) HasMode() bool { return len(s.Modes) > 0 }

// MeanText renders the mean with two decimals.
func (s Summary) MeanText() string { return fmt.Sprintf("%.2f", s.Mean) }

// MedianText renders the middle value as is, or the averaged pair with two decimals.
func (s Summary) MedianText() string {
	if s.MedianAveraged {
		return fmt.Sprintf("%.2f", s.Median)
	}
	return formatNumber(s.Median)
}

// ModeText joins the modes with ", " or returns NoMode.
func (s Summary) ModeText() string {
	if !s.HasMode() {
		return NoMode
	}
	parts := make([]string, len(s.Modes))
	for i, m := range s.Modes {
		parts[i] = formatNumber(m)
	}
	return strings.Join(parts, ", ")
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
