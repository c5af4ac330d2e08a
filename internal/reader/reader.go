// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reader turns raw catalog streams into Record values.
//
// Each encoding (MARC ISO-2709, MARCXML, Aleph sequential) implements
// the same Reader contract: a lazy, forward-only, non-restartable
// sequence of records pulled one at a time. The caller owns the
// underlying source; abandoning a reader releases nothing beyond what
// the caller holds.
package reader

import (
	"fmt"
	"io"
	"strings"

	"github.com/meshintelligence/marcpick/pkg/types"
)

// Reader produces records from one source. Next returns io.EOF when the
// source is exhausted and a *MalformedError when a record violates the
// encoding's structural rules; after a *MalformedError the reader has
// advanced past the offending record and may be pulled again.
type Reader interface {
	Next() (*types.Record, error)
}

// MalformedError reports a structurally invalid record. The reader
// skips the record's bytes, so callers can keep pulling.
type MalformedError struct {
	Format types.Format
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed %s record: %s", e.Format, e.Reason)
}

// New returns the Reader for format over src.
func New(format types.Format, src io.Reader) (Reader, error) {
	switch format {
	case types.FormatMARC:
		return NewMARC(src), nil
	case types.FormatMARCXML:
		return NewMARCXML(src), nil
	case types.FormatAleph:
		return NewAleph(src), nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// NewString returns the Reader for format over an in-memory source.
func NewString(format types.Format, src string) (Reader, error) {
	return New(format, strings.NewReader(src))
}

// isControlTag reports whether tag names a control field by the usual
// convention (tags below "010").
func isControlTag(tag string) bool {
	return tag < "010"
}
