// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Record is one catalog entry, independent of the encoding it was read
// from. Field order is the order the fields appeared in the source;
// repeated tags are preserved as distinct entries.
type Record struct {
	// Leader is the fixed 24-character record header. Readers that
	// encounter no literal leader (Aleph sequential without an LDR line)
	// leave it empty.
	Leader string `json:"leader" yaml:"leader"`

	// Identifier is the source-level record identifier, when the encoding
	// carries one (the 9-digit Aleph system number). Empty for MARC and
	// MARCXML records.
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`

	// Fields holds control and data fields in encoding order.
	Fields []Field `json:"fields" yaml:"fields"`
}

// Field is either a control field (Tag + Value) or a data field
// (Tag + Ind1 + Ind2 + Subfields), never both.
type Field struct {
	// Tag is the 3-character field tag.
	Tag string `json:"tag" yaml:"tag"`

	// Value is the raw content of a control field.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`

	// Ind1 and Ind2 are the single-character indicators of a data field.
	Ind1 string `json:"ind1,omitempty" yaml:"ind1,omitempty"`
	Ind2 string `json:"ind2,omitempty" yaml:"ind2,omitempty"`

	// Subfields holds a data field's coded subfields in encoding order;
	// repeated codes are preserved.
	Subfields []Subfield `json:"subfields,omitempty" yaml:"subfields,omitempty"`
}

// Subfield is one coded value within a data field.
type Subfield struct {
	Code  string `json:"code" yaml:"code"`
	Value string `json:"value" yaml:"value"`
}

// ControlField builds a control field.
func ControlField(tag, value string) Field {
	return Field{Tag: tag, Value: value}
}

// DataField builds a data field. Indicators are single characters;
// blank indicators are spaces, not empty strings.
func DataField(tag, ind1, ind2 string, subfields ...Subfield) Field {
	return Field{Tag: tag, Ind1: ind1, Ind2: ind2, Subfields: subfields}
}

// IsControl reports whether f is a control field. Data fields always
// carry two indicator characters, so an absent Ind1 identifies the
// control variant.
func (f Field) IsControl() bool {
	return f.Ind1 == "" && f.Ind2 == ""
}

// Indicators returns the two indicator characters as one string, or ""
// for control fields.
func (f Field) Indicators() string {
	if f.IsControl() {
		return ""
	}
	return f.Ind1 + f.Ind2
}
