// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// valueNode collapses a value list for output: one value serializes as
// a plain string, zero or many as a sequence.
func valueNode(values []string) any {
	if len(values) == 1 {
		return values[0]
	}
	return values
}

// MarshalJSON writes the projection as an object whose members follow
// scheme order. encoding/json would sort a plain map's keys.
func (p Projection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range p.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(valueNode(p.Values[key]))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML emits the projection as a mapping in scheme order.
func (p Projection) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range p.Keys {
		var k, v yaml.Node
		if err := k.Encode(key); err != nil {
			return nil, err
		}
		if err := v.Encode(valueNode(p.Values[key])); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &k, &v)
	}
	return node, nil
}

// FormatJSON writes projections as an indented JSON array to w.
func FormatJSON(projections []Projection, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(projections)
}

// FormatYAML writes projections as a YAML sequence to w.
func FormatYAML(projections []Projection, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(projections)
}

// FormatTable writes projections as human-readable blocks to w, one
// block per record.
func FormatTable(projections []Projection, w io.Writer) {
	for i, p := range projections {
		if p.Record != "" {
			fmt.Fprintf(w, "record %d (%s)\n", i+1, p.Record)
		} else {
			fmt.Fprintf(w, "record %d\n", i+1)
		}
		for _, key := range p.Keys {
			values := p.Values[key]
			if len(values) == 0 {
				fmt.Fprintf(w, "  %s  -\n", key)
				continue
			}
			for _, v := range values {
				fmt.Fprintf(w, "  %s  %s\n", key, v)
			}
		}
	}
	fmt.Fprintf(w, "%d records\n", len(projections))
}
