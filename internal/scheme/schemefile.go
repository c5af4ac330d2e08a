// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scheme

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// File is the on-disk representation of a scheme. An analyst can keep a
// selector list and filter condition in a YAML file and reuse it across
// runs instead of repeating them on the command line.
type File struct {
	// Fields lists the 6-character selectors in extraction order.
	Fields []string `yaml:"fields"`

	// Condition is the optional filter condition.
	Condition string `yaml:"condition,omitempty"`
}

// FieldSpec joins the selector list back into the tab-separated form
// Set expects.
func (f *File) FieldSpec() string {
	return strings.Join(f.Fields, "\t")
}

// WriteFile saves a scheme definition to path.
func WriteFile(path, field, cond string) error {
	f := File{Condition: cond}
	if field != "" {
		f.Fields = strings.Split(field, "\t")
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling scheme file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a scheme definition from path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scheme file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing scheme file: %w", err)
	}
	return &f, nil
}
