package reader

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintelligence/marcpick/pkg/types"
)

const alephDoc = `000011223 FMT   L BK
000011223 LDR   L 00000nam a2200000   4500
000011223 001   L 000123456
000011223 2001  L $$aEffective Java$$d3rd ed.
000011223 606   L $$aProgramming
000011224 001   L 000123457
000011224 200   L $$aAnother title
`

func TestAlephGrouping(t *testing.T) {
	r := NewAleph(strings.NewReader(alephDoc))

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "000011223", rec.Identifier)
	assert.Equal(t, "00000nam a2200000   4500", rec.Leader)
	require.Len(t, rec.Fields, 4)

	assert.Equal(t, "FMT", rec.Fields[0].Tag)
	assert.True(t, rec.Fields[0].IsControl())
	assert.Equal(t, "BK", rec.Fields[0].Value)

	assert.Equal(t, "001", rec.Fields[1].Tag)
	assert.Equal(t, "000123456", rec.Fields[1].Value)

	df := rec.Fields[2]
	assert.Equal(t, "200", df.Tag)
	assert.Equal(t, "1", df.Ind1)
	assert.Equal(t, " ", df.Ind2)
	require.Len(t, df.Subfields, 2)
	assert.Equal(t, "a", df.Subfields[0].Code)
	assert.Equal(t, "Effective Java", df.Subfields[0].Value)
	assert.Equal(t, "3rd ed.", df.Subfields[1].Value)

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "000011224", rec.Identifier)
	assert.Empty(t, rec.Leader)
	require.Len(t, rec.Fields, 2)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestAlephBlankLinesIgnored(t *testing.T) {
	doc := "000000001 001   L A\n\n   \n000000001 001   L B\n"
	r := NewAleph(strings.NewReader(doc))

	rec, err := r.Next()
	require.NoError(t, err)
	require.Len(t, rec.Fields, 2)
	assert.Equal(t, "A", rec.Fields[0].Value)
	assert.Equal(t, "B", rec.Fields[1].Value)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestAlephBadSystemNumber(t *testing.T) {
	doc := "000000001 001   L A\nBADNUMBER 001   L X\n000000002 001   L B\n"
	r := NewAleph(strings.NewReader(doc))

	// The malformed line surfaces before the grouping moves on.
	_, err := r.Next()
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, types.FormatAleph, malformed.Format)

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "000000001", rec.Identifier)

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "000000002", rec.Identifier)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestAlephIdentifierSelectable(t *testing.T) {
	doc := "000000042 200   L $$aTitle\n"
	r := NewAleph(strings.NewReader(doc))

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "000000042", rec.Identifier)
}
