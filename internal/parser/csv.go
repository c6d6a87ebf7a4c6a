package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KaramelBytes/dataexplorer/internal/analysis"
)

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	return hasSuffixFold(filename, ".csv", ".tsv")
}

// Parse reads label,value rows. An optional header row is skipped.
// Empty cells are null, bare numbers are numbers, anything else stays text for the cleaner.
func (csvParser) Parse(content []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = sniffDelimiter(content)

	t := &Table{}
	first := true
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		if first {
			first = false
			if isHeader(rec) {
				continue
			}
		}
		label := strings.TrimSpace(rec[0])
		cell := ""
		if len(rec) > 1 {
			cell = rec[1]
		}
		t.Points = append(t.Points, analysis.RawDataPoint{Label: label, Value: cellValue(cell)})
	}
	return t, nil
}

func cellValue(cell string) analysis.RawValue {
	s := strings.TrimSpace(cell)
	if s == "" {
		return analysis.Null()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return analysis.Number(f)
	}
	return analysis.Text(cell)
}

func isHeader(rec []string) bool {
	switch strings.ToLower(strings.TrimSpace(rec[0])) {
	case "label", "name", "nama":
		return true
	}
	if len(rec) > 1 {
		switch strings.ToLower(strings.TrimSpace(rec[1])) {
		case "value", "nilai":
			return true
		}
	}
	return false
}

// sniffDelimiter picks the most frequent of ',', ';' and tab on the first line.
func sniffDelimiter(content []byte) rune {
	line := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	best, bestN := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}
