package analysis

import (
	"fmt"
	"strings"
)

// Report bundles one dataset's cleaning outcome and statistics for rendering.
type Report struct {
	Name     string
	Raw      []RawDataPoint
	Cleaned  []DataPoint
	Cleaning CleaningReport
	Summary  Summary
}

// NewReport cleans raw and describes the result.
func NewReport(name string, raw []RawDataPoint) (*Report, error) {
	cleaned, rep := CleanWithReport(raw)
	sum, err := Describe(cleaned)
	if err != nil {
		return nil, fmt.Errorf("describe %q: %w", name, err)
	}
	return &Report{Name: name, Raw: raw, Cleaned: cleaned, Cleaning: rep, Summary: sum}, nil
}

// Markdown renders a compact report suitable for the terminal or a prompt.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("Dataset: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d (clean %d, dropped %d)\n\n", r.Cleaning.Total, r.Cleaning.Kept, r.Cleaning.Dropped()))

	if len(r.Raw) > 0 {
		b.WriteString("[RAW DATA]\n")
		for _, p := range r.Raw {
			mark := ""
			if p.Value.Dirty() {
				mark = " (dirty)"
			}
			b.WriteString(fmt.Sprintf("- %s: %s%s\n", safeLabel(p.Label), p.Value.String(), mark))
		}
		b.WriteString("\n")
	}

	b.WriteString("[CLEANING]\n")
	b.WriteString(fmt.Sprintf("- null values dropped: %d\n", r.Cleaning.DroppedNull))
	b.WriteString(fmt.Sprintf("- non-numeric values dropped: %d\n", r.Cleaning.DroppedInvalid))
	if len(r.Cleaning.Coerced) > 0 {
		b.WriteString(fmt.Sprintf("- converted from text: %s\n", strings.Join(r.Cleaning.Coerced, ", ")))
	}
	b.WriteString("\n")

	b.WriteString("[STATISTICS]\n")
	b.WriteString(fmt.Sprintf("- Mean (Rata-rata): %s\n", r.Summary.MeanText()))
	b.WriteString(fmt.Sprintf("- Median (Nilai Tengah): %s\n", r.Summary.MedianText()))
	b.WriteString(fmt.Sprintf("- Modus: %s\n", r.Summary.ModeText()))
	b.WriteString(fmt.Sprintf("- Range: %s .. %s\n", formatNumber(r.Summary.Min), formatNumber(r.Summary.Max)))
	return b.String()
}

func safeLabel(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
