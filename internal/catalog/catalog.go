package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/dataexplorer/internal/analysis"
	"github.com/KaramelBytes/dataexplorer/internal/parser"
	"github.com/KaramelBytes/dataexplorer/internal/quiz"
)

//go:embed data/datasets.yaml
var datasetsYAML []byte

//go:embed data/questions.yaml
var questionsYAML []byte

// ErrDatasetNotFound is returned by Get for an unknown id.
var ErrDatasetNotFound = errors.New("dataset not found")

// Kind tells what a dataset card offers.
type Kind int

const (
	KindEmpty Kind = iota
	KindData
	KindContent
)

// Dataset is either an analyzable sample (Data) or a reading card (Content).
type Dataset struct {
	ID          string                  `json:"id" yaml:"id"`
	Name        string                  `json:"name" yaml:"name"`
	Description string                  `json:"description" yaml:"description"`
	Data        []analysis.RawDataPoint `json:"data,omitempty" yaml:"data,omitempty"`
	Content     string                  `json:"content,omitempty" yaml:"content,omitempty"`
}

// Kind reports which of Data or Content the dataset carries. Data wins if both are set.
func (d Dataset) Kind() Kind {
	switch {
	case len(d.Data) > 0:
		return KindData
	case strings.TrimSpace(d.Content) != "":
		return KindContent
	default:
		return KindEmpty
	}
}

// DirtyCount is the number of raw values that need cleaning.
func (d Dataset) DirtyCount() int {
	n := 0
	for _, p := range d.Data {
		if p.Value.Dirty() {
			n++
		}
	}
	return n
}

// Catalog is an ordered, read-only set of datasets.
type Catalog struct {
	datasets []Dataset
	byID     map[string]int
}

// Parse decodes a YAML list of datasets.
func Parse(b []byte) (*Catalog, error) {
	var ds []Dataset
	if err := yaml.Unmarshal(b, &ds); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(ds...)
}

// New builds a catalog, rejecting empty or duplicate ids.
func New(ds ...Dataset) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int, len(ds))}
	for _, d := range ds {
		if d.ID == "" {
			return nil, fmt.Errorf("dataset %q has no id", d.Name)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate dataset id %q", d.ID)
		}
		c.byID[d.ID] = len(c.datasets)
		c.datasets = append(c.datasets, d)
	}
	return c, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog

	questionsOnce sync.Once
	questions     []quiz.Question
)

// Default returns the built-in sample datasets.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(datasetsYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// All returns the datasets in catalog order.
func (c *Catalog) All() []Dataset {
	out := make([]Dataset, len(c.datasets))
	copy(out, c.datasets)
	return out
}

// Get looks a dataset up by id.
func (c *Catalog) Get(id string) (Dataset, error) {
	i, ok := c.byID[id]
	if !ok {
		return Dataset{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	return c.datasets[i], nil
}

// With returns a copy of the catalog with extra datasets appended.
func (c *Catalog) With(extra ...Dataset) (*Catalog, error) {
	return New(append(c.All(), extra...)...)
}

// ParseQuestions decodes a YAML question bank and validates each entry.
func ParseQuestions(b []byte) ([]quiz.Question, error) {
	var qs []quiz.Question
	if err := yaml.Unmarshal(b, &qs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	for _, q := range qs {
		if err := q.Validate(); err != nil {
			return nil, err
		}
	}
	return qs, nil
}

// Questions returns the built-in 20-question bank.
func Questions() []quiz.Question {
	questionsOnce.Do(func() {
		qs, err := ParseQuestions(questionsYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded questions: %v", err))
		}
		questions = qs
	})
	out := make([]quiz.Question, len(questions))
	copy(out, questions)
	return out
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// LoadFile reads a user dataset (csv, json or yaml) into an analyzable Dataset.
func LoadFile(path string) (Dataset, error) {
	t, err := parser.ParseFile(path)
	if err != nil {
		return Dataset{}, err
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	id := strings.Trim(slugRe.ReplaceAllString(strings.ToLower(base), "_"), "_")
	if id == "" {
		id = "custom"
	}
	desc := t.Description
	if desc == "" {
		desc = "Dataset dari berkas " + filepath.Base(path)
	}
	return Dataset{ID: "file_" + id, Name: t.Name, Description: desc, Data: t.Points}, nil
}
