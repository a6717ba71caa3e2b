package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty working directory with an empty user
// config dir and no foview environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, k := range []string{"FOVIEW_THEME", "FOVIEW_NO_COLOR", "NO_COLOR", "FOVIEW_DEBUG", "FOVIEW_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestFindConfigPath_ReturnsLocalConfig_When_FileExists(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".foview.toml", []byte("theme = \"mono\"\n"), 0o600))

	assert.Equal(t, ".foview.toml", FindConfigPath())

	require.NoError(t, os.WriteFile(".foview.yaml", []byte("theme: mono\n"), 0o600))
	assert.Equal(t, ".foview.yaml", FindConfigPath(), "yaml is preferred over toml")
}

func TestFindConfigPath_UsesXDGPath_When_LocalMissing(t *testing.T) {
	dir := isolate(t)
	xdg := filepath.Join(dir, "xdg", "foview")
	require.NoError(t, os.MkdirAll(xdg, 0o755))
	want := filepath.Join(xdg, ".foview.yaml")
	require.NoError(t, os.WriteFile(want, []byte("theme: orca\n"), 0o600))

	assert.Equal(t, want, FindConfigPath())
}

func TestFindConfigPath_ReturnsEmpty_When_NoConfig(t *testing.T) {
	isolate(t)
	assert.Empty(t, FindConfigPath())
}

func TestLoadFile_YAMLAndTOMLAgree(t *testing.T) {
	dir := isolate(t)
	yamlPath := filepath.Join(dir, "a.yaml")
	tomlPath := filepath.Join(dir, "a.toml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
theme: orca
no_color: true
slide_duration: 350ms
filter:
  name: log
  skip: false
log:
  level: debug
`), 0o600))
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
theme = "orca"
no_color = true
slide_duration = "350ms"

[filter]
name = "log"
skip = false

[log]
level = "debug"
`), 0o600))

	fromYAML, err := LoadFile(yamlPath)
	require.NoError(t, err)
	fromTOML, err := LoadFile(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, fromYAML, fromTOML)

	assert.Equal(t, "orca", fromYAML.Theme)
	require.NotNil(t, fromYAML.NoColor)
	assert.True(t, *fromYAML.NoColor)
	assert.Nil(t, fromYAML.Filter.Pass)
	require.NotNil(t, fromYAML.Filter.Skip)
	assert.False(t, *fromYAML.Filter.Skip)
}

func TestLoadFile_Malformed(t *testing.T) {
	dir := isolate(t)
	p := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(p, []byte("theme = \n"), 0o600))
	_, err := LoadFile(p)
	assert.Error(t, err)
}
