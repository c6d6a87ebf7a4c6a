package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/dataexplorer/internal/analysis"
)

type jsonParser struct{}

func (jsonParser) CanParse(filename string) bool { return hasSuffixFold(filename, ".json") }

// Parse accepts either a bare array of {label, value} or an object with name, description and data.
func (jsonParser) Parse(content []byte) (*Table, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pts []analysis.RawDataPoint
		if err := json.Unmarshal(trimmed, &pts); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return &Table{Points: pts}, nil
	}
	var t Table
	if err := json.Unmarshal(trimmed, &t); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return &t, nil
}

type yamlParser struct{}

func (yamlParser) CanParse(filename string) bool { return hasSuffixFold(filename, ".yaml", ".yml") }

// Parse accepts the same two shapes as the JSON parser. Quoted numbers stay text.
func (yamlParser) Parse(content []byte) (*Table, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(root.Content) == 0 {
		return &Table{}, nil
	}
	doc := root.Content[0]
	if doc.Kind == yaml.SequenceNode {
		var pts []analysis.RawDataPoint
		if err := doc.Decode(&pts); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return &Table{Points: pts}, nil
	}
	var t Table
	if err := doc.Decode(&t); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &t, nil
}
