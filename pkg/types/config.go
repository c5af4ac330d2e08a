// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared record model and configuration structs.
package types

// Format identifies a catalog record encoding.
type Format string

const (
	FormatMARC    Format = "marc"
	FormatMARCXML Format = "marcxml"
	FormatAleph   Format = "aleph"
)

// Valid reports whether f names a supported encoding.
func (f Format) Valid() bool {
	switch f {
	case FormatMARC, FormatMARCXML, FormatAleph:
		return true
	}
	return false
}

// OutputFormat selects how extracted mappings are written.
type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

// ExtractConfig holds settings for an extraction run.
type ExtractConfig struct {
	// Format is the input encoding: marc, marcxml, or aleph.
	Format Format `json:"format" yaml:"format"`

	// Fields is the tab-separated list of 6-character selectors.
	Fields string `json:"fields" yaml:"fields"`

	// Condition is the optional filter condition; empty means every
	// record passes.
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`

	// Output selects the result encoding (default table).
	Output OutputFormat `json:"output" yaml:"output"`
}

// StoreConfig holds settings for persisting extraction runs.
type StoreConfig struct {
	// DBPath is the SQLite database file (default marcpick.db).
	DBPath string `json:"db_path" yaml:"db_path"`
}
