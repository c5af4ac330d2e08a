package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintelligence/marcpick/pkg/types"
)

func titleRecord(titles ...string) *types.Record {
	rec := &types.Record{Leader: "00000nam a2200000   4500"}
	for _, title := range titles {
		rec.Fields = append(rec.Fields, types.DataField("200", "1", " ",
			types.Subfield{Code: "a", Value: title},
		))
	}
	return rec
}

func TestCompileSingleTerm(t *testing.T) {
	node, err := Compile("200@@ajava")
	require.NoError(t, err)

	assert.True(t, node.Eval(titleRecord("learning java")))
	assert.False(t, node.Eval(titleRecord("learning go")))
	// Search-anywhere semantics, not anchored match.
	assert.True(t, node.Eval(titleRecord("the javanese gamelan")))
}

func TestCompileExistenceTerm(t *testing.T) {
	node, err := Compile("200@@a")
	require.NoError(t, err)

	assert.True(t, node.Eval(titleRecord("anything")))
	assert.False(t, node.Eval(&types.Record{}))
}

func TestInlineCaseInsensitiveEscape(t *testing.T) {
	node, err := Compile(`200@@a(?i\)java`)
	require.NoError(t, err)

	term, ok := node.(matchNode)
	require.True(t, ok)
	assert.True(t, term.caseInsensitive)

	assert.True(t, node.Eval(titleRecord("JAVA programming")))
	assert.True(t, node.Eval(titleRecord("Java programming")))
	assert.False(t, node.Eval(titleRecord("Go programming")))
}

func TestEscapedOpenParen(t *testing.T) {
	node, err := Compile(`200@@a\(draft\)`)
	require.NoError(t, err)

	assert.True(t, node.Eval(titleRecord("report (draft)")))
	assert.False(t, node.Eval(titleRecord("report draft")))
}

func TestOperatorPrecedence(t *testing.T) {
	// OR binds loosest: a OR (b AND c).
	node, err := Compile("200@@aalpha OR 200@@abeta AND 200@@agamma")
	require.NoError(t, err)

	assert.True(t, node.Eval(titleRecord("alpha")))
	assert.False(t, node.Eval(titleRecord("beta")))
	assert.True(t, node.Eval(titleRecord("beta", "gamma")))
}

func TestNotBindsTighterThanAnd(t *testing.T) {
	node, err := Compile("NOT 200@@aalpha AND 200@@abeta")
	require.NoError(t, err)

	assert.True(t, node.Eval(titleRecord("beta")))
	assert.False(t, node.Eval(titleRecord("alpha", "beta")))
	assert.False(t, node.Eval(titleRecord("gamma")))
}

func TestGroupingOverridesPrecedence(t *testing.T) {
	node, err := Compile("(200@@aalpha OR 200@@abeta) AND 200@@agamma")
	require.NoError(t, err)

	assert.False(t, node.Eval(titleRecord("alpha")))
	assert.True(t, node.Eval(titleRecord("alpha", "gamma")))
	assert.True(t, node.Eval(titleRecord("beta", "gamma")))
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	node, err := Compile("200@@aalpha or not 200@@abeta")
	require.NoError(t, err)

	assert.True(t, node.Eval(titleRecord("alpha")))
	assert.True(t, node.Eval(titleRecord("gamma")))
	assert.False(t, node.Eval(titleRecord("beta")))
}

func TestLeaderTerm(t *testing.T) {
	node, err := Compile("LDR@@@^.{5}nam")
	require.NoError(t, err)

	assert.True(t, node.Eval(titleRecord("x")))
	assert.False(t, node.Eval(&types.Record{Leader: "00000cam a2200000   4500"}))
}

func TestCatalogFilterExpression(t *testing.T) {
	node, err := Compile(`(200@@a(?i\)java AND NOT 200@@a(?i\)script) OR 606@@a^JAVA`)
	require.NoError(t, err)

	java := titleRecord("Java")
	assert.True(t, node.Eval(java))

	script := titleRecord("JavaScript")
	assert.False(t, node.Eval(script))

	subject := &types.Record{Fields: []types.Field{
		types.DataField("606", " ", " ", types.Subfield{Code: "a", Value: "JAVA (island)"}),
	}}
	assert.True(t, node.Eval(subject))
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"unmatched open", "(200@@ajava"},
		{"unmatched close", "200@@ajava)"},
		{"lone operator", "AND"},
		{"leading operator", "OR 200@@ajava"},
		{"trailing operator", "200@@ajava AND"},
		{"double operator", "200@@ajava AND OR 200@@ago"},
		{"not without operand", "200@@ajava AND NOT"},
		{"empty group", "()"},
		{"truncated selector", "200@a"},
		{"bad selector char", "20 @@ajava"},
		{"bad regex", "200@@a[unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.text)
			assert.ErrorIs(t, err, ErrMalformed, "Compile(%q)", tt.text)
		})
	}
}
