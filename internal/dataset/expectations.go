package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Expectations pins parts of the schema that the deployment relies on.
//
//	key_column: ADM2_EN
//	required: [Rainfall, Forest_Cover]
//	forbid:   [Notes]
type Expectations struct {
	KeyColumn string   `yaml:"key_column"`
	Required  []string `yaml:"required"`
	Forbid    []string `yaml:"forbid"`
}

// LoadExpectations reads a YAML expectations file.
func LoadExpectations(path string) (*Expectations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	var e Expectations
	if err := yaml.Unmarshal(data, &e); err != nil {
		return nil, Invalid("", 0, "parse schema file %s: %v", path, err)
	}
	return &e, nil
}

// Check validates a derived schema against the expectations.
func (e *Expectations) Check(s Schema) error {
	if e.KeyColumn != "" && e.KeyColumn != s.KeyColumn {
		return Invalid(e.KeyColumn, 0, "expected key column, table uses %q", s.KeyColumn)
	}
	have := make(map[string]bool, len(s.Metrics))
	for _, m := range s.Metrics {
		have[m] = true
	}
	for _, m := range e.Required {
		if !have[m] {
			return Invalid(m, 0, "required metric column is missing")
		}
	}
	for _, m := range e.Forbid {
		if have[m] {
			return Invalid(m, 0, "column is not allowed in the metric table")
		}
	}
	return nil
}

// YAML renders the schema as a YAML document.
func (s Schema) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
