package analysis

import (
	"errors"
	"strings"
	"testing"
)

func points(vals ...float64) []DataPoint {
	out := make([]DataPoint, len(vals))
	for i, v := range vals {
		out[i] = DataPoint{Label: string(rune('A' + i)), Value: v}
	}
	return out
}

func TestDescribeExamScores(t *testing.T) {
	s, err := Describe(points(85, 92, 78, 88, 95, 82, 75, 90, 85))
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if got := s.MeanText(); got != "85.56" {
		t.Errorf("mean = %s, want 85.56", got)
	}
	if got := s.MedianText(); got != "85" {
		t.Errorf("median = %s, want 85", got)
	}
	if got := s.ModeText(); got != "85" {
		t.Errorf("mode = %s, want 85", got)
	}
}

func TestDescribeTable(t *testing.T) {
	cases := []struct {
		name   string
		vals   []float64
		mean   string
		median string
		mode   string
	}{
		{"all distinct", []float64{1, 2, 3, 4, 5}, "3.00", "3", NoMode},
		{"even count averages", []float64{4, 1, 3, 2}, "2.50", "2.50", NoMode},
		{"tie two modes", []float64{3, 1, 3, 1, 2}, "2.00", "2", "1, 3"},
		{"pair among distinct", []float64{1, 2, 2, 3, 4}, "2.40", "2", "2"},
		{"single value", []float64{7}, "7.00", "7", NoMode},
		{"fractional middle", []float64{1.5, 2.25, 9}, "4.25", "2.25", NoMode},
		{"canteen", []float64{150, 120, 135, 95, 210}, "142.00", "135", NoMode},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := Describe(points(c.vals...))
			if err != nil {
				t.Fatalf("Describe: %v", err)
			}
			if s.MeanText() != c.mean || s.MedianText() != c.median || s.ModeText() != c.mode {
				t.Fatalf("got mean=%s median=%s mode=%s, want %s %s %s",
					s.MeanText(), s.MedianText(), s.ModeText(), c.mean, c.median, c.mode)
			}
		})
	}
}

func TestDescribeEmpty(t *testing.T) {
	if _, err := Describe(nil); !errors.Is(err, ErrEmptyData) {
		t.Fatalf("expected ErrEmptyData, got %v", err)
	}
}

func TestReportMarkdown(t *testing.T) {
	raw := []RawDataPoint{{"Andi", Number(85)}, {"Dewi", Text("88")}, {"Fani", Null()}}
	r, err := NewReport("Nilai Ujian Siswa", raw)
	if err != nil {
		t.Fatalf("NewReport: %v", err)
	}
	md := r.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"Dataset: Nilai Ujian Siswa",
		"Rows: 3 (clean 2, dropped 1)",
		"- Dewi: \"88\" (dirty)",
		"- Fani: null (dirty)",
		"converted from text: Dewi",
		"- Mean (Rata-rata): 86.50",
		"- Modus: Tidak ada",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestNewReportAllDirty(t *testing.T) {
	_, err := NewReport("kosong", []RawDataPoint{{"x", Null()}})
	if !errors.Is(err, ErrEmptyData) {
		t.Fatalf("expected ErrEmptyData, got %v", err)
	}
}
