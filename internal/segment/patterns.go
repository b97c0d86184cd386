package segment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type patternsFile struct {
	Patterns []string `yaml:"patterns"`
}

// LoadPatterns reads an ordered heading pattern list from a YAML file of the
// form:
//
//	patterns:
//	  - 'Item \d+\.'
//	  - 'PART [IVX]+'
func LoadPatterns(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patterns file: %w", err)
	}
	var pf patternsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse patterns file: %w", err)
	}
	if len(pf.Patterns) == 0 {
		return nil, fmt.Errorf("patterns file %s defines no patterns", path)
	}
	return pf.Patterns, nil
}

// FromFile builds a Segmenter from a YAML pattern file, or the default
// Segmenter when path is empty.
func FromFile(path string) (*Segmenter, error) {
	if path == "" {
		return Default(), nil
	}
	patterns, err := LoadPatterns(path)
	if err != nil {
		return nil, err
	}
	return New(patterns)
}
