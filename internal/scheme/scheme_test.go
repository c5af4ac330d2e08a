package scheme

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintelligence/marcpick/pkg/types"
)

func TestSetFieldList(t *testing.T) {
	s := New()
	report := s.Set("LDR@@@\t010@@a\t200@@a\t210@@d", "")
	assert.True(t, report.Field)
	assert.True(t, report.Condition)
	assert.Equal(t, []string{"LDR@@@", "010@@a", "200@@a", "210@@d"}, s.Keys())
}

func TestSetBadFieldRetainsPrevious(t *testing.T) {
	s := New()
	require.True(t, s.Set("200@@a", "").Field)

	tests := []string{"", "200@a", "200@@a\tshort", "200@@a\t", "200 @@a"}
	for _, field := range tests {
		report := s.Set(field, "")
		assert.False(t, report.Field, "field %q should fail", field)
		assert.Equal(t, []string{"200@@a"}, s.Keys(), "field %q should not clobber the list", field)
	}
}

func TestSetConditionIndependentOfField(t *testing.T) {
	s := New()
	report := s.Set("bogus", "200@@ajava")
	assert.False(t, report.Field)
	assert.True(t, report.Condition)

	// The condition compiled even though the field list failed.
	rec := &types.Record{Fields: []types.Field{
		types.DataField("200", " ", " ", types.Subfield{Code: "a", Value: "java"}),
	}}
	assert.True(t, s.Match(rec))
	assert.False(t, s.Match(&types.Record{}))
}

func TestSetBadConditionRetainsPrevious(t *testing.T) {
	s := New()
	require.True(t, s.Set("200@@a", "200@@ajava").Condition)

	report := s.Set("200@@a", "(200@@ajava")
	assert.True(t, report.Field)
	assert.False(t, report.Condition)

	// Prior condition still in force.
	rec := &types.Record{Fields: []types.Field{
		types.DataField("200", " ", " ", types.Subfield{Code: "a", Value: "java"}),
	}}
	assert.True(t, s.Match(rec))
	assert.False(t, s.Match(&types.Record{}))
}

func TestEmptyConditionAlwaysPasses(t *testing.T) {
	s := New()
	require.True(t, s.Set("200@@a", "200@@ajava").Condition)

	report := s.Set("200@@a", "")
	assert.True(t, report.Condition)
	assert.True(t, s.Match(&types.Record{}))
}

func TestSetIsIdempotent(t *testing.T) {
	rec := &types.Record{Fields: []types.Field{
		types.DataField("200", " ", " ", types.Subfield{Code: "a", Value: "java"}),
	}}

	s := New()
	s.Set("200@@a\t606@@a", "200@@ajava")
	first := s.Keys()
	firstMatch := s.Match(rec)

	s.Set("200@@a\t606@@a", "200@@ajava")
	assert.Equal(t, first, s.Keys())
	assert.Equal(t, firstMatch, s.Match(rec))
}

func TestSchemeFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheme.yaml")
	require.NoError(t, WriteFile(path, "LDR@@@\t200@@a", "200@@ajava"))

	f, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"LDR@@@", "200@@a"}, f.Fields)
	assert.Equal(t, "200@@ajava", f.Condition)

	s := New()
	report := s.Set(f.FieldSpec(), f.Condition)
	assert.True(t, report.OK())
	assert.Equal(t, []string{"LDR@@@", "200@@a"}, s.Keys())
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
