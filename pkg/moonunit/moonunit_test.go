package moonunit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/foview/pkg/model"
)

const sampleXML = `<moonunit title="nightly">
<run name="x86_64" cpu="x86_64" vendor="pc" os="linux-gnu">
  <library file="libcore.so" name="core">
    <suite name="logging">
      <test name="log_rotate">
        <result status="pass"/>
      </test>
      <test name="open_file">
        <event level="info" stage="test" file="file.c" line="10">opening &quot;a&quot;</event>
        <result status="fail" stage="test" file="file.c" line="12">Assertion failed: fd &gt;= 0</result>
        <backtrace>
          <frame binary_file="libcore.so" function="open_file" return_addr="7f12"/>
          <frame function="main"/>
        </backtrace>
      </test>
      <test name="known">
        <result status="xfail" stage="test">still broken</result>
      </test>
    </suite>
  </library>
  <library file="/usr/lib/libnet.so">
    <abort reason="constructor crashed"/>
    <suite name="sockets">
      <test name="connect"><result status="xpass" stage="test"/></test>
      <test name="debugged"><result status="debug" stage="test"/></test>
    </suite>
  </library>
</run>
</moonunit>`

func TestDecode_Sample(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleXML))
	require.NoError(t, err)
	require.NoError(t, doc.Validate())

	assert.Equal(t, "nightly", doc.Title)
	assert.True(t, doc.MultiLibrary())
	require.Len(t, doc.Libraries, 2)

	core := doc.Libraries[0]
	assert.Equal(t, "core", core.Name)
	assert.Equal(t, "libcore.so", core.File)
	require.Len(t, core.Suites, 1)
	cases := core.Suites[0].Cases
	require.Len(t, cases, 3)

	assert.Equal(t, model.StatusPass, cases[0].Status)
	assert.False(t, cases[0].HasDetail())

	fail := cases[1]
	assert.Equal(t, model.StatusFail, fail.Status)
	assert.Equal(t, "test", fail.Stage)
	assert.Equal(t, "Assertion failed: fd >= 0", fail.Reason)
	assert.Equal(t, model.Location{File: "file.c", Line: 12}, fail.Location)
	assert.Equal(t, []string{
		`[info] file.c:10: opening "a"`,
		"#0 open_file 0x7f12 (libcore.so)",
		"#1 main",
	}, fail.Detail)

	assert.Equal(t, model.StatusXFail, cases[2].Status)

	net := doc.Libraries[1]
	assert.Equal(t, "libnet", net.Name, "name falls back to the file's base name")
	assert.Equal(t, "constructor crashed", net.Abort)
	assert.Equal(t, model.StatusXPass, net.Suites[0].Cases[0].Status)
	assert.Equal(t, model.StatusSkip, net.Suites[0].Cases[1].Status, "debug results carry no verdict")
}

func TestDecode_IDsAssigned(t *testing.T) {
	doc, err := DecodeBytes([]byte(sampleXML))
	require.NoError(t, err)
	assert.Equal(t, model.NodeID("l1/s0/t1"), doc.Libraries[1].Suites[0].Cases[1].ID)
}

func TestDecode_SingleLibraryIsNotMulti(t *testing.T) {
	xml := `<moonunit><run name="r"><library name="only"><suite name="s"><test name="t"><result status="skip"/></test></suite></library></run></moonunit>`
	doc, err := DecodeBytes([]byte(xml))
	require.NoError(t, err)
	assert.False(t, doc.MultiLibrary())
	assert.Equal(t, "r", doc.Title)
}

func TestDecode_Errors(t *testing.T) {
	tests := map[string]string{
		"not xml":        "{}",
		"unknown status": `<moonunit><run><library name="a"><suite name="s"><test name="t"><result status="crash"/></test></suite></library></run></moonunit>`,
		"missing result": `<moonunit><run><library name="a"><suite name="s"><test name="t"></test></suite></library></run></moonunit>`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeBytes([]byte(input))
			assert.Error(t, err)
		})
	}
	_, err := DecodeBytes([]byte(`<moonunit><run><library name="a"><suite name="s"><test name="t"><result status="crash"/></test></suite></library></run></moonunit>`))
	assert.ErrorIs(t, err, model.ErrUnknownStatus)
}
