package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/foview/pkg/model"
)

func TestParse_SingleSection(t *testing.T) {
	input := "--- library:core format:testjson ---\n{\"Action\":\"pass\"}\n"
	sections, err := Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "core", sections[0].Library)
	assert.Equal(t, FormatTestJSON, sections[0].Format)
	assert.Equal(t, `{"Action":"pass"}`, string(sections[0].Content))
}

func TestParse_MultipleSections(t *testing.T) {
	input := "--- library:a format:moonunit ---\n<moonunit/>\n" +
		"--- library:b format:testjson ---\n{}\n{}\n"
	sections, err := Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, FormatMoonunit, sections[0].Format)
	assert.Equal(t, "{}\n{}", string(sections[1].Content))
}

func TestParse_EmptySection(t *testing.T) {
	input := "--- library:a format:testjson ---\n--- library:b format:testjson ---\n{}\n"
	sections, err := Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Empty(t, sections[0].Content)
}

func TestParse_CRLFDelimiters(t *testing.T) {
	input := "--- library:a format:testjson ---\r\n{}\r\n"
	sections, err := Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "a", sections[0].Library)
}

func TestParse_NoDelimiter(t *testing.T) {
	_, err := Parse([]byte("{\"Action\":\"pass\"}\n"))
	assert.ErrorIs(t, err, ErrNoSections)

	_, err = Parse([]byte("--- library:a format:sarif ---\n{}\n"))
	assert.ErrorIs(t, err, ErrNoSections, "unknown formats are not delimiters")
}

func TestIsDelimiter(t *testing.T) {
	assert.True(t, IsDelimiter([]byte("--- library:x-y format:moonunit ---")))
	assert.False(t, IsDelimiter([]byte("--- PASS: TestA (0.00s)")))
}

func TestDecode_BuildsMultiLibraryDocument(t *testing.T) {
	input := "--- library:unit format:testjson ---\n" +
		`{"Action":"pass","Package":"p","Test":"TestLog"}` + "\n" +
		"not json\n" +
		"--- library:native format:moonunit ---\n" +
		`<moonunit><run name="r"><library name="ignored" file="libn.so"><suite name="s"><test name="t"><result status="fail">boom</result></test></suite></library></run></moonunit>` + "\n"

	doc, malformed, err := Decode("nightly", []byte(input))
	require.NoError(t, err)
	require.NoError(t, doc.Validate())
	assert.Equal(t, 1, malformed)
	assert.Equal(t, "nightly", doc.Title)
	assert.True(t, doc.MultiLibrary())
	require.Len(t, doc.Libraries, 2)

	assert.Equal(t, "unit", doc.Libraries[0].Name)
	assert.Equal(t, "native", doc.Libraries[1].Name, "the section name wins over the xml name")
	assert.Equal(t, "libn.so", doc.Libraries[1].File)

	tc, ok := doc.Case("l1/s0/t0")
	require.True(t, ok)
	assert.Equal(t, model.StatusFail, tc.Status)
	assert.Equal(t, "boom", tc.Reason)
}

func TestDecode_SectionErrorNamesTheLibrary(t *testing.T) {
	input := "--- library:native format:moonunit ---\nnot xml\n"
	_, _, err := Decode("", []byte(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `section "native"`)
}

func TestDecode_SingleSectionIsStillMulti(t *testing.T) {
	input := "--- library:only format:testjson ---\n" +
		`{"Action":"skip","Package":"p","Test":"T"}` + "\n"
	doc, _, err := Decode("", []byte(input))
	require.NoError(t, err)
	assert.True(t, doc.MultiLibrary())
}
