// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package condition compiles and evaluates record filter conditions.
//
// A condition is a boolean expression over regex match terms:
//
//	expr    := orExpr
//	orExpr  := andExpr ( "OR" andExpr )*
//	andExpr := notExpr ( "AND" notExpr )*
//	notExpr := [ "NOT" ] primary
//	primary := "(" expr ")" | term
//	term    := selector(6 chars) regexBody
//
// A term's selector is exactly the next 6 characters; the regex body
// runs greedily from there to the next token boundary: a
// whitespace-delimited AND/OR/NOT keyword, an unescaped ')', or end of
// input. Inside a body the two-character escapes `\)` and `\(` resolve
// to literal parentheses before the body reaches the regex engine, so
// an inline flag group is written `(?i\)`. An empty body turns the term
// into an existence test.
package condition

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/meshintelligence/marcpick/internal/selector"
	"github.com/meshintelligence/marcpick/pkg/types"
)

// ErrMalformed reports a condition that fails to compile: unmatched
// parentheses, a dangling operator, an empty term, or a regex body the
// regex engine rejects.
var ErrMalformed = errors.New("malformed condition")

// Node is one node of a compiled condition expression. Nodes are
// immutable and safe for concurrent evaluation.
type Node interface {
	// Eval reports whether rec satisfies the condition rooted at this node.
	Eval(rec *types.Record) bool
}

// matchNode is a leaf term: selector plus optional regex.
type matchNode struct {
	sel selector.Selector
	// re is nil for a bare 6-character term, which tests only that the
	// selector matches at least one value.
	re *regexp.Regexp
	// caseInsensitive records a leading (?i) group. The flag is already
	// part of the compiled regex; this is informational.
	caseInsensitive bool
}

func (n matchNode) Eval(rec *types.Record) bool {
	values := n.sel.Values(rec)
	if n.re == nil {
		return len(values) > 0
	}
	for _, v := range values {
		if n.re.MatchString(v) {
			return true
		}
	}
	return false
}

type andNode struct{ left, right Node }

func (n andNode) Eval(rec *types.Record) bool {
	return n.left.Eval(rec) && n.right.Eval(rec)
}

type orNode struct{ left, right Node }

func (n orNode) Eval(rec *types.Record) bool {
	return n.left.Eval(rec) || n.right.Eval(rec)
}

type notNode struct{ child Node }

func (n notNode) Eval(rec *types.Record) bool {
	return !n.child.Eval(rec)
}

// Compile parses text into an evaluable expression tree.
func Compile(text string) (Node, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("%w: unexpected %s at position %d", ErrMalformed, p.peek().describe(), p.peek().pos)
	}
	return node, nil
}

// parser consumes the token stream produced by lex.
type parser struct {
	toks []token
	pos  int
}

func (p *parser) done() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for !p.done() && p.peek().kind == tokOr {
		op := p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, operandErr(op, err)
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for !p.done() && p.peek().kind == tokAnd {
		op := p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, operandErr(op, err)
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Node, error) {
	if !p.done() && p.peek().kind == tokNot {
		op := p.next()
		child, err := p.parsePrimary()
		if err != nil {
			return nil, operandErr(op, err)
		}
		return notNode{child: child}, nil
	}
	return p.parsePrimary()
}

// errEmptyTerm marks a spot where a term or group was expected but the
// input ended or an operator followed. Callers rewrite it into a
// dangling-operator message when appropriate.
var errEmptyTerm = fmt.Errorf("%w: empty term", ErrMalformed)

func (p *parser) parsePrimary() (Node, error) {
	if p.done() {
		return nil, fmt.Errorf("%w at end of input", errEmptyTerm)
	}
	switch t := p.next(); t.kind {
	case tokLParen:
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.done() || p.peek().kind != tokRParen {
			return nil, fmt.Errorf("%w: unmatched '(' at position %d", ErrMalformed, t.pos)
		}
		p.next()
		return node, nil
	case tokRParen:
		return nil, fmt.Errorf("%w: unmatched ')' at position %d", ErrMalformed, t.pos)
	case tokTerm:
		return matchNode{sel: t.sel, re: t.re, caseInsensitive: t.ci}, nil
	default:
		return nil, fmt.Errorf("%w: %s has no left operand", ErrMalformed, t.describe())
	}
}

// operandErr rewrites a missing-primary error as a dangling-operator error.
func operandErr(op token, err error) error {
	if errors.Is(err, errEmptyTerm) {
		return fmt.Errorf("%w: %s at position %d has no right operand", ErrMalformed, op.describe(), op.pos)
	}
	return err
}
