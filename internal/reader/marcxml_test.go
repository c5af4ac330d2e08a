package reader

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintelligence/marcpick/pkg/types"
)

const marcxmlDoc = `<?xml version="1.0" encoding="UTF-8"?>
<collection xmlns="http://www.loc.gov/MARC21/slim">
  <record>
    <leader>00123nam a2200061   4500</leader>
    <controlfield tag="001">000123456</controlfield>
    <datafield tag="200" ind1="1" ind2=" ">
      <subfield code="a">Effective Java</subfield>
      <subfield code="d">3rd ed.</subfield>
    </datafield>
    <datafield tag="606" ind1=" " ind2=" ">
      <subfield code="a">Programming</subfield>
    </datafield>
  </record>
  <record>
    <controlfield tag="001">000123457</controlfield>
  </record>
</collection>`

func TestMARCXMLStream(t *testing.T) {
	r := NewMARCXML(strings.NewReader(marcxmlDoc))

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "00123nam a2200061   4500", rec.Leader)
	require.Len(t, rec.Fields, 3)
	assert.Equal(t, "001", rec.Fields[0].Tag)
	assert.Equal(t, "000123456", rec.Fields[0].Value)
	assert.Equal(t, "200", rec.Fields[1].Tag)
	assert.Equal(t, "1", rec.Fields[1].Ind1)
	assert.Equal(t, " ", rec.Fields[1].Ind2)
	require.Len(t, rec.Fields[1].Subfields, 2)
	assert.Equal(t, "Effective Java", rec.Fields[1].Subfields[0].Value)
	assert.Equal(t, "606", rec.Fields[2].Tag)

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Empty(t, rec.Leader)
	require.Len(t, rec.Fields, 1)
	assert.Equal(t, "000123457", rec.Fields[0].Value)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestMARCXMLSingleRecordRoot(t *testing.T) {
	doc := `<record><controlfield tag="001">only</controlfield></record>`
	r := NewMARCXML(strings.NewReader(doc))

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "only", rec.Fields[0].Value)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestMARCXMLBadRecordSkipsToNext(t *testing.T) {
	doc := `<collection>
  <record><controlfield>no tag attribute</controlfield></record>
  <record><controlfield tag="001">good</controlfield></record>
</collection>`
	r := NewMARCXML(strings.NewReader(doc))

	_, err := r.Next()
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, types.FormatMARCXML, malformed.Format)

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "good", rec.Fields[0].Value)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestMARCXMLSyntaxErrorEndsStream(t *testing.T) {
	doc := `<collection><record><controlfield tag="001">x</controlfield>`
	r := NewMARCXML(strings.NewReader(doc))

	_, err := r.Next()
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestMARCXMLMissingIndicatorsDefaultToSpace(t *testing.T) {
	doc := `<record><datafield tag="200"><subfield code="a">x</subfield></datafield></record>`
	r := NewMARCXML(strings.NewReader(doc))

	rec, err := r.Next()
	require.NoError(t, err)
	require.Len(t, rec.Fields, 1)
	assert.Equal(t, " ", rec.Fields[0].Ind1)
	assert.Equal(t, " ", rec.Fields[0].Ind2)
}
