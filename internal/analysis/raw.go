package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// RawKind tells how a collected value was recorded.
type RawKind int

const (
	// RawNull is an absent value. It is the zero kind so a missing YAML key decodes to null.
	RawNull RawKind = iota
	RawNumber
	RawString
)

// RawValue is a value as collected: a number, a numeric-looking string, or nothing.
type RawValue struct {
	Kind RawKind
	Num  float64
	Str  string
}

// Number returns a numeric raw value.
func Number(v float64) RawValue { return RawValue{Kind: RawNumber, Num: v} }

// Text returns a string-encoded raw value.
func Text(s string) RawValue { return RawValue{Kind: RawString, Str: s} }

// Null returns an absent raw value.
func Null() RawValue { return RawValue{} }

// Dirty reports whether the value needs cleaning before analysis.
func (v RawValue) Dirty() bool { return v.Kind != RawNumber }

// String renders the value the way it is shown in the cleaning table.
func (v RawValue) String() string {
	switch v.Kind {
	case RawNumber:
		return formatNumber(v.Num)
	case RawString:
		return strconv.Quote(v.Str)
	default:
		return "null"
	}
}

func (v RawValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case RawNumber:
		return json.Marshal(v.Num)
	case RawString:
		return json.Marshal(v.Str)
	default:
		return []byte("null"), nil
	}
}

func (v *RawValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*v = Null()
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("raw value: %w", err)
		}
		*v = Text(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("raw value: %w", err)
	}
	*v = Number(f)
	return nil
}

// UnmarshalYAML keeps the distinction between 85 and "85" that the node tag carries.
// Null nodes never reach here; the decoder leaves the zero value, which is RawNull.
func (v *RawValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("raw value: line %d: expected scalar", node.Line)
	}
	switch node.ShortTag() {
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return fmt.Errorf("raw value: line %d: %w", node.Line, err)
		}
		*v = Number(f)
	case "!!null":
		*v = Null()
	default:
		*v = Text(node.Value)
	}
	return nil
}

// RawDataPoint is one collected observation.
type RawDataPoint struct {
	Label string   `json:"label" yaml:"label"`
	Value RawValue `json:"value" yaml:"value"`
}

// DataPoint is a cleaned observation with a finite value.
type DataPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
