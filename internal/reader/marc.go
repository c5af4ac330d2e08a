// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reader

import (
	"bufio"
	"fmt"
	"io"

	"github.com/meshintelligence/marcpick/pkg/types"
)

// ISO-2709 structural bytes.
const (
	recordTerminator  = 0x1D
	fieldTerminator   = 0x1E
	subfieldDelimiter = 0x1F

	leaderLen   = 24
	dirEntryLen = 12
)

// MARC reads ISO-2709 sequential records: a 24-character leader whose
// positions 0-4 carry the record length and 12-16 the base address of
// data, a directory of 12-character entries (tag, field length, field
// start), and field data addressed through the directory. Records are
// concatenated back to back; after a malformed record the reader
// resynchronizes at the next record terminator.
type MARC struct {
	br *bufio.Reader
}

// NewMARC returns a MARC reader over src.
func NewMARC(src io.Reader) *MARC {
	return &MARC{br: bufio.NewReader(src)}
}

// Next returns the next record, io.EOF at end of source, or a
// *MalformedError after skipping a structurally invalid record.
func (m *MARC) Next() (*types.Record, error) {
	if err := m.skipSeparators(); err != nil {
		return nil, err
	}

	leader := make([]byte, leaderLen)
	if _, err := io.ReadFull(m.br, leader); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		// Partial leader at end of stream.
		return nil, m.fail("truncated leader")
	}

	recLen, ok := atoi(string(leader[0:5]))
	if !ok || recLen < leaderLen+1 {
		return nil, m.fail(fmt.Sprintf("invalid record length %q", leader[0:5]))
	}
	base, ok := atoi(string(leader[12:17]))
	if !ok || base <= leaderLen || base >= recLen {
		return nil, m.fail(fmt.Sprintf("invalid base address %q", leader[12:17]))
	}

	rest := make([]byte, recLen-leaderLen)
	if _, err := io.ReadFull(m.br, rest); err != nil {
		return nil, m.fail("record shorter than its stated length")
	}
	record := append(leader, rest...)
	if record[recLen-1] != recordTerminator {
		return nil, m.fail("missing record terminator")
	}

	rec, reason := parseMARCRecord(record, base)
	if reason != "" {
		// The record's bytes are fully consumed; no resync needed.
		return nil, &MalformedError{Format: types.FormatMARC, Reason: reason}
	}
	return rec, nil
}

// parseMARCRecord decodes one complete, terminator-checked record.
// It returns a non-empty reason on structural violations.
func parseMARCRecord(record []byte, base int) (*types.Record, string) {
	// The directory occupies [24, base-1) and ends with a field terminator.
	if record[base-1] != fieldTerminator {
		return nil, "directory not terminated"
	}
	dir := record[leaderLen : base-1]
	if len(dir)%dirEntryLen != 0 {
		return nil, fmt.Sprintf("directory length %d is not a multiple of %d", len(dir), dirEntryLen)
	}

	rec := &types.Record{Leader: string(record[:leaderLen])}
	for off := 0; off < len(dir); off += dirEntryLen {
		entry := dir[off : off+dirEntryLen]
		tag := string(entry[0:3])
		fieldLen, ok := atoi(string(entry[3:7]))
		if !ok {
			return nil, fmt.Sprintf("non-numeric field length in directory entry %q", entry)
		}
		start, ok := atoi(string(entry[7:12]))
		if !ok {
			return nil, fmt.Sprintf("non-numeric field start in directory entry %q", entry)
		}

		lo := base + start
		hi := lo + fieldLen
		if lo < base || hi > len(record) {
			return nil, fmt.Sprintf("field %s extends past the record end", tag)
		}
		// The stated field length includes the field terminator.
		if record[hi-1] != fieldTerminator {
			return nil, fmt.Sprintf("field %s not terminated", tag)
		}
		data := record[lo : hi-1]

		if isControlTag(tag) {
			rec.Fields = append(rec.Fields, types.ControlField(tag, string(data)))
			continue
		}
		if len(data) < 2 {
			return nil, fmt.Sprintf("data field %s shorter than its indicators", tag)
		}
		field := types.DataField(tag, string(data[0]), string(data[1]))
		for _, sf := range splitBytes(data[2:], subfieldDelimiter) {
			if len(sf) < 1 {
				continue
			}
			field.Subfields = append(field.Subfields, types.Subfield{
				Code:  string(sf[0]),
				Value: string(sf[1:]),
			})
		}
		rec.Fields = append(rec.Fields, field)
	}
	return rec, ""
}

// fail consumes input up to and including the next record terminator so
// one corrupt record costs exactly one skip.
func (m *MARC) fail(reason string) error {
	for {
		b, err := m.br.ReadByte()
		if err != nil || b == recordTerminator {
			break
		}
	}
	return &MalformedError{Format: types.FormatMARC, Reason: reason}
}

// skipSeparators discards the line breaks some MARC exports place
// between records.
func (m *MARC) skipSeparators() error {
	for {
		b, err := m.br.ReadByte()
		if err != nil {
			return err
		}
		if b != '\n' && b != '\r' {
			return m.br.UnreadByte()
		}
	}
}

// atoi parses a fixed-width ASCII decimal without allowing signs,
// spaces, or other forgiving strconv behavior.
func atoi(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, len(s) > 0
}

// splitBytes splits data on sep. The slice before the first separator
// is dropped when empty, matching the layout where a delimiter
// immediately follows the indicators.
func splitBytes(data []byte, sep byte) [][]byte {
	var parts [][]byte
	start := 0
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == sep {
			if i > start {
				parts = append(parts, data[start:i])
			}
			start = i + 1
		}
	}
	return parts
}
