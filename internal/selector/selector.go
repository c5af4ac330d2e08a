// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selector compiles and matches 6-character field selectors.
//
// A selector is TTTIIS: three tag characters, two indicator characters,
// one subfield code. Each position is a literal or the wildcard '@',
// which matches any single character. The pseudo-tags LDR and ASN select
// the record leader and the source record identifier. '#' in an
// indicator position is a literal-space alias; '#' in the subfield
// position selects the field's indicator pair instead of a subfield.
package selector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/meshintelligence/marcpick/pkg/types"
)

// Wildcard matches any single character at its position.
const Wildcard = '@'

// indAlias stands for a literal space in indicator positions and for
// the indicator pair itself in the subfield position.
const indAlias = '#'

// ErrMalformed reports a selector that is not exactly 6 allowed characters.
var ErrMalformed = errors.New("malformed selector")

// Selector is a compiled 6-character pattern. Immutable after Compile.
type Selector struct {
	text string // original text, used as the output key
	pat  string // lowercased pattern with '#' indicator aliases resolved
}

// Compile validates and compiles a selector. The text must be exactly 6
// characters, each an ASCII letter, digit, punctuation character, or '@'.
func Compile(text string) (Selector, error) {
	if len(text) != 6 {
		return Selector{}, fmt.Errorf("%w: %q is %d characters, want 6", ErrMalformed, text, len(text))
	}
	for i := 0; i < 6; i++ {
		c := text[i]
		if c == Wildcard || allowed(c) {
			continue
		}
		return Selector{}, fmt.Errorf("%w: %q has disallowed character at position %d", ErrMalformed, text, i)
	}
	pat := strings.ToLower(text)
	// '#' in the indicator positions means a literal space.
	pat = pat[:3] + strings.ReplaceAll(pat[3:5], string(indAlias), " ") + pat[5:]
	return Selector{text: text, pat: pat}, nil
}

// allowed reports whether c may appear in a selector: printable ASCII,
// excluding space and DEL.
func allowed(c byte) bool {
	return c > 0x20 && c < 0x7F
}

// Text returns the original 6-character selector text.
func (s Selector) Text() string { return s.text }

// IsLeader reports whether s selects the record leader.
func (s Selector) IsLeader() bool { return s.pat[:3] == "ldr" }

// IsIdentifier reports whether s selects the source record identifier.
func (s Selector) IsIdentifier() bool { return s.pat[:3] == "asn" }

// wantsIndicators reports whether s selects a field's indicator pair.
func (s Selector) wantsIndicators() bool { return s.pat[5] == indAlias }

// eq compares one selector position against a data character,
// case-insensitively, honoring the wildcard.
func eq(pat byte, c byte) bool {
	if pat == Wildcard {
		return true
	}
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	return pat == c
}

// matchTag reports whether the three tag positions match tag.
func (s Selector) matchTag(tag string) bool {
	if len(tag) != 3 {
		return false
	}
	return eq(s.pat[0], tag[0]) && eq(s.pat[1], tag[1]) && eq(s.pat[2], tag[2])
}

// matchIndicators reports whether the indicator positions match a data
// field's indicators. A missing indicator character compares as a space.
func (s Selector) matchIndicators(f types.Field) bool {
	return eq(s.pat[3], indChar(f.Ind1)) && eq(s.pat[4], indChar(f.Ind2))
}

func indChar(ind string) byte {
	if ind == "" {
		return ' '
	}
	return ind[0]
}

// Matches reports whether s matches f at every non-wildcard position.
// Control fields match only when the indicator and subfield positions
// are wildcards, since they have no corresponding characters. For data
// fields the subfield position must match at least one subfield code
// (or be the '#' indicator alias).
func (s Selector) Matches(f types.Field) bool {
	if s.IsLeader() || s.IsIdentifier() {
		return false
	}
	if !s.matchTag(f.Tag) {
		return false
	}
	if f.IsControl() {
		return s.pat[3] == Wildcard && s.pat[4] == Wildcard && s.pat[5] == Wildcard
	}
	if !s.matchIndicators(f) {
		return false
	}
	if s.wantsIndicators() {
		return true
	}
	for _, sf := range f.Subfields {
		if sf.Code != "" && eq(s.pat[5], sf.Code[0]) {
			return true
		}
	}
	return false
}

// Values collects every value in rec matched by s, in record order.
// A nil result means no position of the record matched.
func (s Selector) Values(rec *types.Record) []string {
	if s.IsLeader() {
		if rec.Leader == "" {
			return nil
		}
		return []string{rec.Leader}
	}
	if s.IsIdentifier() {
		if rec.Identifier == "" {
			return nil
		}
		return []string{rec.Identifier}
	}
	var values []string
	for _, f := range rec.Fields {
		if !s.matchTag(f.Tag) {
			continue
		}
		if f.IsControl() {
			if s.pat[3] == Wildcard && s.pat[4] == Wildcard && s.pat[5] == Wildcard && f.Value != "" {
				values = append(values, f.Value)
			}
			continue
		}
		if !s.matchIndicators(f) {
			continue
		}
		if s.wantsIndicators() {
			values = append(values, f.Indicators())
			continue
		}
		for _, sf := range f.Subfields {
			if sf.Code != "" && eq(s.pat[5], sf.Code[0]) && sf.Value != "" {
				values = append(values, sf.Value)
			}
		}
	}
	return values
}
