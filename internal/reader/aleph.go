// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reader

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/meshintelligence/marcpick/pkg/types"
)

// Aleph line layout, after trimming:
//
//	000011223 2001  L $$aJava$$d2nd ed.
//	^0       ^10 ^13  ^18
//
// columns 0-8 hold the 9-digit system number, 10-12 the tag, 13-14 the
// indicators, and the value starts at column 18 behind the " L " owner
// marker. Consecutive lines with the same system number form one
// record.
const (
	alephIDLen    = 9
	alephMinLine  = 19
	alephSubDelim = "$$"
)

// Aleph reads the Aleph sequential line format. A change of system
// number (or end of stream) closes the current record.
type Aleph struct {
	sc *bufio.Scanner

	// pending accumulates the record currently being grouped.
	pending   *types.Record
	pendingID string
	done      bool
}

// NewAleph returns an Aleph sequential reader over src.
func NewAleph(src io.Reader) *Aleph {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Aleph{sc: sc}
}

// Next returns the next record, io.EOF at end of source, or a
// *MalformedError for a line whose system number is not 9 digits. Such
// lines are dropped; grouping continues with the following line.
func (a *Aleph) Next() (*types.Record, error) {
	if a.done {
		return a.flush()
	}
	for a.sc.Scan() {
		line := strings.TrimSpace(a.sc.Text())
		if len(line) < alephMinLine {
			// Blank or separator line.
			continue
		}
		id := line[:alephIDLen]
		if !digits(id) {
			return nil, &MalformedError{
				Format: types.FormatAleph,
				Reason: fmt.Sprintf("line has system number %q, want 9 digits", id),
			}
		}
		if a.pending != nil && id != a.pendingID {
			rec := a.pending
			a.pending = nil
			a.startRecord(id, line)
			return rec, nil
		}
		if a.pending == nil {
			a.startRecord(id, line)
			continue
		}
		a.addLine(line)
	}
	a.done = true
	if err := a.sc.Err(); err != nil {
		return nil, err
	}
	return a.flush()
}

// flush hands out the final buffered record, then io.EOF.
func (a *Aleph) flush() (*types.Record, error) {
	if a.pending != nil {
		rec := a.pending
		a.pending = nil
		return rec, nil
	}
	return nil, io.EOF
}

func (a *Aleph) startRecord(id, line string) {
	a.pending = &types.Record{Identifier: id}
	a.pendingID = id
	a.addLine(line)
}

// addLine folds one sequential line into the pending record.
func (a *Aleph) addLine(line string) {
	tag := line[10:13]
	value := line[18:]

	switch {
	case tag == "LDR":
		a.pending.Leader = value
	case tag == "FMT" || isControlTag(tag):
		a.pending.Fields = append(a.pending.Fields, types.ControlField(tag, value))
	default:
		field := types.DataField(tag, alephIndicator(line[13]), alephIndicator(line[14]))
		for _, sf := range strings.Split(value, alephSubDelim) {
			if len(sf) < 2 {
				continue
			}
			field.Subfields = append(field.Subfields, types.Subfield{
				Code:  sf[:1],
				Value: sf[1:],
			})
		}
		a.pending.Fields = append(a.pending.Fields, field)
	}
}

// alephIndicator maps an indicator column to one character; Aleph
// leaves the columns blank for most fields.
func alephIndicator(c byte) string {
	return string(rune(c))
}

// digits reports whether s is entirely ASCII digits.
func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
