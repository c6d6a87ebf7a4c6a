package analysis

import (
	"math"
	"strconv"
	"strings"
)

// CleaningReport explains what Clean did to a dataset.
type CleaningReport struct {
	Total          int `json:"total"`
	Kept           int `json:"kept"`
	DroppedNull    int `json:"dropped_null"`
	DroppedInvalid int `json:"dropped_invalid"`
	// Coerced lists labels whose string value was converted to a number.
	Coerced []string `json:"coerced,omitempty"`
}

// Dropped is the number of entries removed.
func (r CleaningReport) Dropped() int { return r.DroppedNull + r.DroppedInvalid }

// Clean keeps entries whose value coerces to a finite number, in input order.
// Nothing is repaired or imputed.
func Clean(raw []RawDataPoint) []DataPoint {
	out, _ := CleanWithReport(raw)
	return out
}

// CleanWithReport is Clean plus the counts behind it.
func CleanWithReport(raw []RawDataPoint) ([]DataPoint, CleaningReport) {
	rep := CleaningReport{Total: len(raw)}
	out := make([]DataPoint, 0, len(raw))
	for _, p := range raw {
		switch p.Value.Kind {
		case RawNull:
			rep.DroppedNull++
		case RawNumber:
			if !isFinite(p.Value.Num) {
				rep.DroppedInvalid++
				continue
			}
			out = append(out, DataPoint{Label: p.Label, Value: p.Value.Num})
		case RawString:
			f, ok := parseNumeric(p.Value.Str)
			if !ok {
				rep.DroppedInvalid++
				continue
			}
			rep.Coerced = append(rep.Coerced, p.Label)
			out = append(out, DataPoint{Label: p.Label, Value: f})
		}
	}
	rep.Kept = len(out)
	return out, rep
}

// parseNumeric accepts a plain decimal or scientific literal with surrounding whitespace.
// Locale separators are not guessed: "1.000" is one, not a thousand. Empty text
// and hex literals are not numbers.
func parseNumeric(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" || strings.ContainsAny(raw, "xX") {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || !isFinite(f) {
		return 0, false
	}
	return f, true
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
