// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scheme holds a compiled extraction scheme: an ordered list of
// field selectors plus an optional filter condition.
package scheme

import (
	"strings"

	"github.com/meshintelligence/marcpick/internal/condition"
	"github.com/meshintelligence/marcpick/internal/selector"
	"github.com/meshintelligence/marcpick/pkg/types"
)

// Scheme drives extraction. It is built by Set and holds no per-record
// state, so one Scheme may be shared across concurrent extraction runs;
// Set itself is not synchronized and must not race with readers.
type Scheme struct {
	selectors []selector.Selector
	// cond is nil when every record passes.
	cond condition.Node
}

// Report is Set's pass/fail outcome, one flag per independently
// compiled part.
type Report struct {
	Field     bool `json:"field" yaml:"field"`
	Condition bool `json:"condition" yaml:"condition"`
}

// OK reports whether both parts compiled.
func (r Report) OK() bool { return r.Field && r.Condition }

// New returns an empty Scheme: no selectors, every record passes.
func New() *Scheme { return &Scheme{} }

// Set compiles the tab-separated selector list and the optional
// condition. The two parts are validated independently: a part that
// fails to compile leaves its previous state untouched and is reported
// false, while the other part is still replaced on success. Set never
// returns an error; all failures live in the Report.
//
// An empty or blank condition sets the always-pass condition and is
// reported true.
func (s *Scheme) Set(field, cond string) Report {
	report := Report{Field: true, Condition: true}

	selectors := make([]selector.Selector, 0, strings.Count(field, "\t")+1)
	for _, text := range strings.Split(field, "\t") {
		sel, err := selector.Compile(text)
		if err != nil {
			report.Field = false
			break
		}
		selectors = append(selectors, sel)
	}
	if report.Field {
		s.selectors = selectors
	}

	if strings.TrimSpace(cond) == "" {
		s.cond = nil
	} else if node, err := condition.Compile(cond); err != nil {
		report.Condition = false
	} else {
		s.cond = node
	}

	return report
}

// Selectors returns the compiled selector list in scheme order.
func (s *Scheme) Selectors() []selector.Selector { return s.selectors }

// Keys returns the original selector texts in scheme order.
func (s *Scheme) Keys() []string {
	keys := make([]string, len(s.selectors))
	for i, sel := range s.selectors {
		keys[i] = sel.Text()
	}
	return keys
}

// Match reports whether rec passes the scheme's condition.
func (s *Scheme) Match(rec *types.Record) bool {
	if s.cond == nil {
		return true
	}
	return s.cond.Eval(rec)
}
