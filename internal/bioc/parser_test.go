package bioc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCollection = `<?xml version="1.0" encoding="UTF-8"?>
<collection>
  <source>PubTator</source>
  <date>20240101</date>
  <key>sample.key</key>
  <document>
    <id>12345</id>
    <passage>
      <infon key="section_type">TITLE</infon>
      <infon key="type">front</infon>
      <offset>0</offset>
      <text>BRCA1 mutations in breast cancer</text>
      <annotation id="1">
        <infon key="type">Gene</infon>
        <infon key="identifier">672</infon>
        <location offset="0" length="5"/>
        <text>BRCA1</text>
      </annotation>
    </passage>
  </document>
</collection>`

func TestParseCollectionFields(t *testing.T) {
	tree, err := Parse([]byte(sampleCollection))
	require.NoError(t, err)

	assert.Equal(t, "PubTator", Str(tree, "source"))
	assert.Equal(t, "20240101", Str(tree, "date"))
	assert.Equal(t, "sample.key", Str(tree, "key"))
}

// A single child element must come back as a bare node, not a slice;
// the one-or-many ambiguity of the source format is preserved.
func TestParseSingleChildIsBareNode(t *testing.T) {
	tree, err := Parse([]byte(sampleCollection))
	require.NoError(t, err)

	_, isNode := tree["document"].(Node)
	assert.True(t, isNode, "single document should be a bare node")

	docs := List(tree, "document")
	require.Len(t, docs, 1)
	assert.Equal(t, "12345", Str(docs[0], "id"))

	passages := List(docs[0], "passage")
	require.Len(t, passages, 1)
	assert.Equal(t, "0", Str(passages[0], "offset"))
	assert.Equal(t, "BRCA1 mutations in breast cancer", Str(passages[0], "text"))

	infons := List(passages[0], "infon")
	require.Len(t, infons, 2)
	assert.Equal(t, "section_type", Str(infons[0], "key"))
	assert.Equal(t, "TITLE", Str(infons[0], "value"))

	annotations := List(passages[0], "annotation")
	require.Len(t, annotations, 1)
	assert.Equal(t, "1", Str(annotations[0], "id"))
	assert.Equal(t, "BRCA1", Str(annotations[0], "text"))

	locations := List(annotations[0], "location")
	require.Len(t, locations, 1)
	assert.Equal(t, 0, Int(locations[0], "offset"))
	assert.Equal(t, 5, Int(locations[0], "length"))
}

func TestParseRepeatedChildrenAreSlices(t *testing.T) {
	xml := `<collection>
	  <document><id>1</id></document>
	  <document><id>2</id></document>
	</collection>`
	tree, err := Parse([]byte(xml))
	require.NoError(t, err)

	_, isSlice := tree["document"].([]any)
	assert.True(t, isSlice, "repeated documents should be a slice")

	docs := List(tree, "document")
	require.Len(t, docs, 2)
	assert.Equal(t, "1", Str(docs[0], "id"))
	assert.Equal(t, "2", Str(docs[1], "id"))
}

func TestParseMalformedXML(t *testing.T) {
	_, err := Parse([]byte(`<collection><document>`))
	assert.Error(t, err)
}

func TestTreeHelpers(t *testing.T) {
	n := Node{
		"str":    "a",
		"int":    "42",
		"float":  7.0,
		"native": 9,
		"bad":    "not a number",
	}

	assert.Equal(t, "a", Str(n, "str"))
	assert.Equal(t, "", Str(n, "missing"))
	assert.Equal(t, 42, Int(n, "int"))
	assert.Equal(t, 7, Int(n, "float"))
	assert.Equal(t, 9, Int(n, "native"))
	assert.Equal(t, 0, Int(n, "bad"))
	assert.Equal(t, 0, Int(n, "missing"))
	assert.Nil(t, List(n, "missing"))
	assert.Nil(t, Child(n, "missing"))
}
