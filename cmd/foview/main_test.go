package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nightlyXML = `<moonunit title="nightly">
<run name="x86_64">
  <library file="libcore.so" name="core">
    <suite name="logging">
      <test name="log_rotate"><result status="pass"/></test>
      <test name="open_file">
        <result status="fail" stage="test" file="file.c" line="12">Assertion failed</result>
      </test>
      <test name="known"><result status="xfail" stage="test">still broken</result></test>
    </suite>
    <suite name="memory">
      <test name="alloc"><result status="skip"/></test>
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

var passingJSON = strings.Join([]string{
	`{"Action":"run","Package":"example.com/pkg","Test":"TestA"}`,
	`{"Action":"pass","Package":"example.com/pkg","Test":"TestA","Elapsed":0.05}`,
	`{"Action":"run","Package":"example.com/pkg","Test":"TestB"}`,
	`{"Action":"pass","Package":"example.com/pkg","Test":"TestB","Elapsed":0.02}`,
	`{"Action":"pass","Package":"example.com/pkg","Elapsed":0.1}`,
}, "\n") + "\n"

var failingJSON = strings.Join([]string{
	`{"Action":"run","Package":"example.com/pkg/handler","Test":"TestCreateUser"}`,
	`{"Action":"output","Package":"example.com/pkg/handler","Test":"TestCreateUser","Output":"    handler_test.go:45: expected error\n"}`,
	`{"Action":"fail","Package":"example.com/pkg/handler","Test":"TestCreateUser","Elapsed":0.3}`,
	`{"Action":"fail","Package":"example.com/pkg/handler","Elapsed":1.2}`,
}, "\n") + "\n"

// isolate runs the test in an empty directory with no config or env
// overrides and returns the path of a written moonunit report.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, k := range []string{"FOVIEW_THEME", "FOVIEW_NO_COLOR", "NO_COLOR", "FOVIEW_DEBUG", "FOVIEW_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	path := filepath.Join(dir, "nightly.xml")
	require.NoError(t, os.WriteFile(path, []byte(nightlyXML), 0o600))
	return path
}

func runCLI(stdin string, args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestList_ShowsFirstLibrary_And_ExitsOne_When_FailureVisible(t *testing.T) {
	path := isolate(t)
	code, out, _ := runCLI("", "list", path)

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "SCOPE: nightly (2 libraries)")
	assert.Contains(t, out, "LIBRARY core: 4 of 4 shown")
	assert.Contains(t, out, "  FAIL open_file\n    file.c:12: Assertion failed\n")
	assert.Contains(t, out, "  XFAIL known")
	assert.NotContains(t, out, "connect", "only the visible library is listed")
	assert.NotContains(t, out, "\x1b[", "piped output is plain")
}

func TestList_StatusFlagsShowOnlyNamedStatuses(t *testing.T) {
	path := isolate(t)
	code, out, _ := runCLI("", "list", "--pass", path)

	assert.Equal(t, 0, code, "no failure is visible")
	assert.Contains(t, out, "filter: status=pass")
	assert.Contains(t, out, "PASS log_rotate")
	assert.Contains(t, out, "XFAIL known", "xfail follows the pass flag")
	assert.NotContains(t, out, "open_file")
	assert.NotContains(t, out, "memory", "suite without matches is hidden")
}

func TestList_NameFilterIsCaseInsensitive(t *testing.T) {
	path := isolate(t)
	code, out, _ := runCLI("", "list", "--name", "LOG", path)

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "PASS log_rotate")
	assert.Contains(t, out, "1 of 4 shown")
	assert.NotContains(t, out, "open_file")
}

func TestList_SwitchesLibrary(t *testing.T) {
	path := isolate(t)
	code, out, _ := runCLI("", "list", "--library", "libnet", "--fail", path)

	assert.Equal(t, 1, code, "xpass counts as a failure")
	assert.Contains(t, out, "LIBRARY libnet")
	assert.Contains(t, out, "ABORTED constructor crashed")
	assert.Contains(t, out, "XPASS connect")
	assert.NotContains(t, out, "debugged", "debug loads as skip")
	assert.NotContains(t, out, "LIBRARY core")
}

func TestList_ExitsTwo_When_LibraryUnknown(t *testing.T) {
	path := isolate(t)
	code, out, errOut := runCLI("", "list", "--library", "nope", path)

	assert.Equal(t, 2, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, `foview: library "nope"`)
}

func TestList_AllListsEveryLibrary(t *testing.T) {
	path := isolate(t)
	_, out, _ := runCLI("", "list", "--all", path)

	core := strings.Index(out, "LIBRARY core")
	net := strings.Index(out, "LIBRARY libnet")
	require.GreaterOrEqual(t, core, 0)
	require.GreaterOrEqual(t, net, 0)
	assert.Less(t, core, net, "document order")
}

func TestList_JSONFromStdin(t *testing.T) {
	isolate(t)
	code, out, _ := runCLI(failingJSON, "list", "--format", "json")

	assert.Equal(t, 1, code)
	var decoded struct {
		Title string `json:"title"`
		Shown []struct {
			Name   string `json:"name"`
			Suites []struct {
				Name  string `json:"name"`
				Cases []struct {
					Name   string   `json:"name"`
					Status string   `json:"status"`
					Detail []string `json:"detail"`
				} `json:"cases"`
			} `json:"suites"`
		} `json:"shown"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Shown, 1)
	assert.Equal(t, "stdin", decoded.Shown[0].Name)
	require.Len(t, decoded.Shown[0].Suites, 1)
	assert.Equal(t, "example.com/pkg/handler", decoded.Shown[0].Suites[0].Name)
	assert.Equal(t, "fail", decoded.Shown[0].Suites[0].Cases[0].Status)
}

func TestList_ExitsTwo_When_FormatUnknown(t *testing.T) {
	path := isolate(t)
	code, _, errOut := runCLI("", "list", "--format", "yaml", path)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown format "yaml"`)
}

func TestList_UsesConfiguredFilter(t *testing.T) {
	path := isolate(t)
	require.NoError(t, os.WriteFile(".foview.yaml", []byte("filter:\n  pass: false\n  skip: false\n"), 0o600))

	code, out, _ := runCLI("", "list", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "FAIL open_file")
	assert.NotContains(t, out, "log_rotate")
	assert.NotContains(t, out, "alloc")
}

func TestView_FallsBackToListing_When_StdoutNotTTY(t *testing.T) {
	isolate(t)
	code, out, errOut := runCLI(passingJSON)

	assert.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "SCOPE: stdin")
	assert.Contains(t, out, "PASS TestA")
	assert.Contains(t, out, "PASS TestB")
}

func TestHTML_WritesPageToFile(t *testing.T) {
	path := isolate(t)
	code, _, errOut := runCLI("", "html", "--name", "log", "-o", "out.html", path)
	require.Equal(t, 0, code, errOut)

	page, err := os.ReadFile("out.html")
	require.NoError(t, err)
	assert.Contains(t, string(page), `library-name="core"`)
	assert.Contains(t, string(page), `library-name="libnet" hidden`)
	assert.Contains(t, string(page), `test-name="log_rotate" test-status="pass">`)
	assert.Contains(t, string(page), `test-name="open_file" test-status="fail" hidden>`)
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI("", "version")
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "foview dev"))
}

func TestRun_ExitsTwo_On_BadInput(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr string
	}{
		{name: "unrecognized format", stdin: "hello\n", args: []string{"list"}, wantErr: "unrecognized report format"},
		{name: "missing file", args: []string{"list", "does-not-exist.xml"}, wantErr: "foview:"},
		{name: "unknown flag", args: []string{"list", "--bogus"}, wantErr: "unknown flag"},
		{name: "unknown theme", stdin: passingJSON, args: []string{"list", "--theme", "neon"}, wantErr: "neon"},
		{name: "too many args", args: []string{"list", "a", "b"}, wantErr: "accepts at most 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(tt.stdin, tt.args...)
			assert.Equal(t, 2, code)
			assert.Contains(t, errOut, tt.wantErr)
		})
	}
}

func TestHelp_DescribesConfigFilterAsStartupPreset(t *testing.T) {
	code, out, _ := runCLI("", "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "startup preset")
	assert.Contains(t, out, "not saved state")

	_, out, _ = runCLI("", "list", "--help")
	assert.Contains(t, out, "overrides the config startup preset")
}

func TestList_FlagsOverrideConfiguredPreset(t *testing.T) {
	path := isolate(t)
	require.NoError(t, os.WriteFile(".foview.yaml", []byte("filter:\n  name: alloc\n  pass: false\n"), 0o600))

	code, out, _ := runCLI("", "list", "--name", "log", "--pass", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "PASS log_rotate")
	assert.NotContains(t, out, "alloc")
}
