package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/dataexplorer/internal/analysis"
)

// Table is a user-supplied dataset before cleaning.
type Table struct {
	Name        string                  `json:"name" yaml:"name"`
	Description string                  `json:"description" yaml:"description"`
	Points      []analysis.RawDataPoint `json:"data" yaml:"data"`
}

// Parser decodes one dataset file format.
type Parser interface {
	CanParse(filename string) bool
	Parse(content []byte) (*Table, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ErrUnsupported indicates the file extension has no registered parser.
var ErrUnsupported = errors.New("unsupported dataset format")

// ErrNoRows indicates the file parsed but held no observations.
var ErrNoRows = errors.New("dataset has no rows")

// ParseFile selects a parser by filename and decodes the dataset.
// A missing name falls back to the file's base name.
func ParseFile(path string) (*Table, error) {
	var p Parser
	for _, cand := range registry {
		if cand.CanParse(path) {
			p = cand
			break
		}
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	t, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(t.Points) == 0 {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), ErrNoRows)
	}
	if strings.TrimSpace(t.Name) == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return t, nil
}

func hasSuffixFold(name string, exts ...string) bool {
	name = strings.ToLower(name)
	for _, e := range exts {
		if strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvParser{})
	Register(jsonParser{})
	Register(yamlParser{})
}
