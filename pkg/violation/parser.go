package violation

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultReportFile is the file name kantra writes inside its output directory.
const DefaultReportFile = "output.yaml"

// LoadReport loads and parses a Konveyor output.yaml file
func LoadReport(analysisPath string) (*Report, error) {
	// Check if path is a directory (contains output.yaml) or direct file path
	path := analysisPath
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, DefaultReportFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis file: %w", err)
	}

	report, err := ParseReport(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse analysis YAML: %w", err)
	}

	return report, nil
}

// ReadReport parses a report from r.
func ReadReport(r io.Reader) (*Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis: %w", err)
	}
	return ParseReport(data)
}

// ParseReport decodes a report document.
//
// The native kantra format is a bare sequence of rule sets. A mapping with a
// "rulesets" key is accepted as well. Unknown fields are ignored and missing
// fields take their zero value.
func ParseReport(data []byte) (*Report, error) {
	report := &Report{}
	if len(bytes.TrimSpace(data)) == 0 {
		return report, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	doc := &root
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return report, nil
		}
		doc = doc.Content[0]
	}

	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&report.RuleSets); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		if err := doc.Decode(report); err != nil {
			return nil, err
		}
	case yaml.ScalarNode:
		if doc.Tag == "!!null" {
			return report, nil
		}
		return nil, fmt.Errorf("unexpected scalar at document root (line %d)", doc.Line)
	default:
		return nil, fmt.Errorf("unexpected document root (line %d)", doc.Line)
	}

	return report, nil
}
