// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reader

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/meshintelligence/marcpick/pkg/types"
)

// MARCXML reads <record> elements from an XML stream. Element names are
// matched by local name, so both namespaced (MARC21 slim) and plain
// documents work. Child order within a record is preserved.
type MARCXML struct {
	dec *xml.Decoder
	// failed is set once the decoder hits a syntax error; the rest of
	// the stream is undecodable, so subsequent pulls return io.EOF.
	failed bool
}

// NewMARCXML returns a MARCXML reader over src.
func NewMARCXML(src io.Reader) *MARCXML {
	return &MARCXML{dec: xml.NewDecoder(src)}
}

// Next returns the next record, io.EOF at end of document, or a
// *MalformedError for a record element that violates the schema.
func (x *MARCXML) Next() (*types.Record, error) {
	if x.failed {
		return nil, io.EOF
	}
	for {
		tok, err := x.dec.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			x.failed = true
			return nil, &MalformedError{Format: types.FormatMARCXML, Reason: err.Error()}
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "record" {
			continue
		}
		rec, err := x.decodeRecord(start)
		if err != nil {
			return nil, err
		}
		return rec, nil
	}
}

// decodeRecord consumes one <record> element. On a structural violation
// it drains the element before returning so the stream stays aligned.
func (x *MARCXML) decodeRecord(start xml.StartElement) (*types.Record, error) {
	rec := &types.Record{}
	var reason string
	depth := 1
	for depth > 0 {
		tok, err := x.dec.Token()
		if err != nil {
			x.failed = true
			return nil, &MalformedError{Format: types.FormatMARCXML, Reason: fmt.Sprintf("unterminated record element: %v", err)}
		}
		switch t := tok.(type) {
		case xml.EndElement:
			depth--
		case xml.StartElement:
			if reason != "" {
				// Already invalid; just drain.
				if err := x.dec.Skip(); err != nil {
					x.failed = true
					return nil, &MalformedError{Format: types.FormatMARCXML, Reason: err.Error()}
				}
				continue
			}
			switch t.Name.Local {
			case "leader":
				var text string
				if err := x.dec.DecodeElement(&text, &t); err != nil {
					x.failed = true
					return nil, &MalformedError{Format: types.FormatMARCXML, Reason: err.Error()}
				}
				rec.Leader = text
			case "controlfield":
				var cf xmlControlfield
				if err := x.dec.DecodeElement(&cf, &t); err != nil {
					x.failed = true
					return nil, &MalformedError{Format: types.FormatMARCXML, Reason: err.Error()}
				}
				if len(cf.Tag) != 3 {
					reason = fmt.Sprintf("controlfield with tag %q", cf.Tag)
					continue
				}
				rec.Fields = append(rec.Fields, types.ControlField(cf.Tag, cf.Value))
			case "datafield":
				var df xmlDatafield
				if err := x.dec.DecodeElement(&df, &t); err != nil {
					x.failed = true
					return nil, &MalformedError{Format: types.FormatMARCXML, Reason: err.Error()}
				}
				field, bad := df.toField()
				if bad != "" {
					reason = bad
					continue
				}
				rec.Fields = append(rec.Fields, field)
			default:
				if err := x.dec.Skip(); err != nil {
					x.failed = true
					return nil, &MalformedError{Format: types.FormatMARCXML, Reason: err.Error()}
				}
			}
		}
	}
	if reason != "" {
		return nil, &MalformedError{Format: types.FormatMARCXML, Reason: reason}
	}
	return rec, nil
}

type xmlControlfield struct {
	Tag   string `xml:"tag,attr"`
	Value string `xml:",chardata"`
}

type xmlDatafield struct {
	Tag       string        `xml:"tag,attr"`
	Ind1      string        `xml:"ind1,attr"`
	Ind2      string        `xml:"ind2,attr"`
	Subfields []xmlSubfield `xml:"subfield"`
}

type xmlSubfield struct {
	Code  string `xml:"code,attr"`
	Value string `xml:",chardata"`
}

// toField converts a decoded datafield element, defaulting absent
// indicators to spaces. A non-empty second return names the violation.
func (df xmlDatafield) toField() (types.Field, string) {
	if len(df.Tag) != 3 {
		return types.Field{}, fmt.Sprintf("datafield with tag %q", df.Tag)
	}
	field := types.DataField(df.Tag, indicator(df.Ind1), indicator(df.Ind2))
	for _, sf := range df.Subfields {
		if sf.Code == "" {
			return types.Field{}, fmt.Sprintf("subfield without code in datafield %s", df.Tag)
		}
		field.Subfields = append(field.Subfields, types.Subfield{Code: sf.Code, Value: sf.Value})
	}
	return field, ""
}

// indicator normalizes an indicator attribute to one character.
func indicator(s string) string {
	s = strings.TrimRight(s, " ")
	if s == "" {
		return " "
	}
	return s[:1]
}
