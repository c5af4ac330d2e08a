// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract drives a format reader through a compiled scheme and
// yields, per passing record, the selector-to-values projection.
package extract

import (
	"io"

	"github.com/meshintelligence/marcpick/internal/reader"
	"github.com/meshintelligence/marcpick/internal/scheme"
	"github.com/meshintelligence/marcpick/pkg/types"
)

// Projection is one record's extraction output. Every scheme selector
// appears as a key, in scheme order; a selector with no match maps to
// an empty sequence, not a missing key.
type Projection struct {
	// Keys holds the original selector texts in scheme order.
	Keys []string

	// Values maps selector text to the matched values in record order.
	Values map[string][]string

	// Record identifies the source record when the encoding carries an
	// identifier (Aleph system number); empty otherwise.
	Record string
}

// Get returns the values for one selector text.
func (p Projection) Get(key string) []string { return p.Values[key] }

// Stream is a lazy, single-pass sequence of projections. Pulling one
// element advances the underlying reader by at least one record;
// records the condition rejects or the reader flags as malformed are
// consumed silently along the way.
type Stream struct {
	scheme *scheme.Scheme
	r      reader.Reader

	matched  int
	filtered int
	skipped  int
}

// New returns a Stream over r driven by s. The scheme must not be
// re-Set while the stream is live.
func New(s *scheme.Scheme, r reader.Reader) *Stream {
	return &Stream{scheme: s, r: r}
}

// Parse returns a Stream reading format from src.
func Parse(s *scheme.Scheme, format types.Format, src io.Reader) (*Stream, error) {
	r, err := reader.New(format, src)
	if err != nil {
		return nil, err
	}
	return New(s, r), nil
}

// ParseMARC returns a Stream over an ISO-2709 source. In-memory
// strings adapt through strings.NewReader.
func ParseMARC(s *scheme.Scheme, src io.Reader) *Stream {
	return New(s, reader.NewMARC(src))
}

// ParseMARCXML returns a Stream over a MARCXML source.
func ParseMARCXML(s *scheme.Scheme, src io.Reader) *Stream {
	return New(s, reader.NewMARCXML(src))
}

// ParseAleph returns a Stream over an Aleph sequential source.
func ParseAleph(s *scheme.Scheme, src io.Reader) *Stream {
	return New(s, reader.NewAleph(src))
}

// Next returns the next passing record's projection. io.EOF ends the
// sequence; malformed records are skipped and counted, never surfaced.
func (st *Stream) Next() (Projection, error) {
	for {
		rec, err := st.r.Next()
		if err == io.EOF {
			return Projection{}, io.EOF
		}
		if err != nil {
			if _, ok := err.(*reader.MalformedError); ok {
				st.skipped++
				continue
			}
			return Projection{}, err
		}
		if !st.scheme.Match(rec) {
			st.filtered++
			continue
		}
		st.matched++
		return st.project(rec), nil
	}
}

// project applies every scheme selector to rec.
func (st *Stream) project(rec *types.Record) Projection {
	selectors := st.scheme.Selectors()
	p := Projection{
		Keys:   st.scheme.Keys(),
		Values: make(map[string][]string, len(selectors)),
		Record: rec.Identifier,
	}
	for _, sel := range selectors {
		values := sel.Values(rec)
		if values == nil {
			values = []string{}
		}
		p.Values[sel.Text()] = values
	}
	return p
}

// Matched returns how many records passed the condition so far.
func (st *Stream) Matched() int { return st.matched }

// Filtered returns how many records the condition rejected so far.
func (st *Stream) Filtered() int { return st.filtered }

// Skipped returns how many malformed records were dropped so far.
func (st *Stream) Skipped() int { return st.skipped }

// Drain pulls the stream to its end and returns every projection.
func (st *Stream) Drain() ([]Projection, error) {
	var out []Projection
	for {
		p, err := st.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
}
