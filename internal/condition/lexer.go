// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package condition

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/meshintelligence/marcpick/internal/selector"
)

type tokKind int

const (
	tokTerm tokKind = iota
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	pos  int // byte offset in the condition text

	// term payload
	sel selector.Selector
	re  *regexp.Regexp
	ci  bool
}

func (t token) describe() string {
	switch t.kind {
	case tokAnd:
		return "AND"
	case tokOr:
		return "OR"
	case tokNot:
		return "NOT"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	default:
		return fmt.Sprintf("term %q", t.sel.Text())
	}
}

// lex splits text into parentheses, keywords, and match terms. Term
// selectors and regex bodies are compiled here so the parser deals only
// in finished tokens.
func lex(text string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(text) {
		switch c := text[i]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, pos: i})
			i++
		default:
			if kind, n, ok := keywordAt(text, i); ok {
				toks = append(toks, token{kind: kind, pos: i})
				i += n
				continue
			}
			tok, n, err := lexTerm(text, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i += n
		}
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("%w: empty condition", ErrMalformed)
	}
	return toks, nil
}

// keywordAt reports whether an AND/OR/NOT keyword starts at offset i.
// Keywords are recognized case-insensitively and must end at a token
// boundary (whitespace, parenthesis, or end of input) so that a term
// like "AND@@a" is not mistaken for an operator.
func keywordAt(text string, i int) (tokKind, int, bool) {
	rest := text[i:]
	for _, kw := range []struct {
		word string
		kind tokKind
	}{
		{"AND", tokAnd},
		{"NOT", tokNot},
		{"OR", tokOr},
	} {
		n := len(kw.word)
		if len(rest) < n || !strings.EqualFold(rest[:n], kw.word) {
			continue
		}
		if len(rest) == n || boundary(rest[n]) {
			return kw.kind, n, true
		}
	}
	return 0, 0, false
}

func boundary(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '(' || c == ')'
}

// lexTerm consumes a selector (exactly 6 characters) and its greedy
// regex body starting at offset i. It returns the finished token and
// the number of bytes consumed.
func lexTerm(text string, i int) (token, int, error) {
	if len(text)-i < 6 {
		return token{}, 0, fmt.Errorf("%w: truncated selector %q at position %d", ErrMalformed, text[i:], i)
	}
	sel, err := selector.Compile(text[i : i+6])
	if err != nil {
		return token{}, 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var body strings.Builder
	j := i + 6
scan:
	for j < len(text) {
		switch c := text[j]; {
		case c == '\\' && j+1 < len(text) && (text[j+1] == ')' || text[j+1] == '('):
			// Strict two-character escape: the body keeps a literal
			// parenthesis the grammar would otherwise claim.
			body.WriteByte(text[j+1])
			j += 2
		case c == ')':
			break scan
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			// Whitespace ends the body only when a keyword, a closing
			// parenthesis, or the end of input follows; otherwise it is
			// part of the regex.
			k := j
			for k < len(text) && (text[k] == ' ' || text[k] == '\t' || text[k] == '\r' || text[k] == '\n') {
				k++
			}
			if k == len(text) || text[k] == ')' {
				break scan
			}
			if _, _, ok := keywordAt(text, k); ok {
				break scan
			}
			body.WriteString(text[j:k])
			j = k
		default:
			body.WriteByte(c)
			j++
		}
	}

	tok := token{kind: tokTerm, pos: i, sel: sel}
	if raw := body.String(); raw != "" {
		re, err := regexp.Compile(raw)
		if err != nil {
			return token{}, 0, fmt.Errorf("%w: invalid regex %q at position %d: %v", ErrMalformed, raw, i+6, err)
		}
		tok.re = re
		tok.ci = strings.HasPrefix(raw, "(?i)")
	}
	return tok, j - i, nil
}
