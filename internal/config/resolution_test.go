package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/foview/pkg/filter"
)

func TestResolveConfig_Defaults(t *testing.T) {
	isolate(t)

	resolved, err := ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme, resolved.Theme)
	assert.Equal(t, SourceDefault, resolved.ThemeSource)
	assert.Equal(t, DefaultSlideDuration, resolved.SlideDuration)
	assert.Equal(t, filter.Default(), resolved.Filter)
	assert.Equal(t, "INFO", resolved.LogLevel)
	assert.False(t, resolved.LegacyMenus)
	assert.Empty(t, resolved.ConfigPath)
}

func TestResolveConfig_PriorityOrder(t *testing.T) {
	tests := []struct {
		name              string
		file              string
		cliFlags          CliFlags
		envVars           map[string]string
		wantTheme         string
		wantThemeSource   string
		wantNoColor       bool
		wantNoColorSource string
	}{
		{
			name:              "file beats defaults",
			file:              "theme: orca\nno_color: true\n",
			wantTheme:         "orca",
			wantThemeSource:   SourceFile,
			wantNoColor:       true,
			wantNoColorSource: SourceFile,
		},
		{
			name:              "env beats file",
			file:              "theme: orca\nno_color: true\n",
			envVars:           map[string]string{"FOVIEW_THEME": "mono", "FOVIEW_NO_COLOR": "false"},
			wantTheme:         "mono",
			wantThemeSource:   SourceEnv,
			wantNoColor:       false,
			wantNoColorSource: SourceEnv,
		},
		{
			name:              "CLI beats env",
			cliFlags:          CliFlags{Theme: "orca", NoColor: false, NoColorSet: true},
			envVars:           map[string]string{"FOVIEW_THEME": "mono", "NO_COLOR": "1"},
			wantTheme:         "orca",
			wantThemeSource:   SourceCLI,
			wantNoColor:       false,
			wantNoColorSource: SourceCLI,
		},
		{
			name:              "NO_COLOR with any value disables colour",
			envVars:           map[string]string{"NO_COLOR": "yes please"},
			wantTheme:         DefaultTheme,
			wantThemeSource:   SourceDefault,
			wantNoColor:       true,
			wantNoColorSource: SourceEnv,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			if tt.file != "" {
				require.NoError(t, os.WriteFile(".foview.yaml", []byte(tt.file), 0o600))
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			resolved, err := ResolveConfig(tt.cliFlags)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTheme, resolved.Theme)
			assert.Equal(t, tt.wantThemeSource, resolved.ThemeSource)
			assert.Equal(t, tt.wantNoColor, resolved.NoColor)
			assert.Equal(t, tt.wantNoColorSource, resolved.NoColorSource)
		})
	}
}

func TestResolveConfig_LogLevel(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".foview.yaml", []byte("log:\n  level: warn\n  file: /tmp/foview.log\n"), 0o600))

	resolved, err := ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.Equal(t, "warn", resolved.LogLevel)
	assert.Equal(t, SourceFile, resolved.LogLevelSource)
	assert.Equal(t, "/tmp/foview.log", resolved.LogFile)

	t.Setenv("FOVIEW_DEBUG", "1")
	resolved, err = ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", resolved.LogLevel)

	resolved, err = ResolveConfig(CliFlags{LogLevel: "error", LogFile: "x.log"})
	require.NoError(t, err)
	assert.Equal(t, "error", resolved.LogLevel)
	assert.Equal(t, SourceCLI, resolved.LogLevelSource)
	assert.Equal(t, "x.log", resolved.LogFile)
}

func TestResolveConfig_FileSeedsFilterAndBehaviour(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".foview.toml", []byte(`
legacy_menus = true
watch = true
slide_duration = "50ms"

[filter]
name = "log"
fail = false
`), 0o600))

	resolved, err := ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.True(t, resolved.LegacyMenus)
	assert.True(t, resolved.Watch)
	assert.Equal(t, 50*time.Millisecond, resolved.SlideDuration)
	assert.Equal(t, filter.Criteria{Name: "log", ShowPass: true, ShowFail: false, ShowSkip: true}, resolved.Filter)
	assert.Equal(t, SourceFile, resolved.FilterSource)

	resolved, err = ResolveConfig(CliFlags{LegacyMenus: false, LegacyMenusSet: true, Watch: false, WatchSet: true})
	require.NoError(t, err)
	assert.False(t, resolved.LegacyMenus)
	assert.False(t, resolved.Watch)
}

func TestResolveConfig_ExplicitConfigPath(t *testing.T) {
	dir := isolate(t)
	p := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(p, []byte("theme: mono\n"), 0o600))

	resolved, err := ResolveConfig(CliFlags{ConfigPath: p})
	require.NoError(t, err)
	assert.Equal(t, "mono", resolved.Theme)
	assert.Equal(t, p, resolved.ConfigPath)

	_, err = ResolveConfig(CliFlags{ConfigPath: filepath.Join(dir, "missing.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist, "an explicit config file must exist")
}

func TestResolveConfig_Validation(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		cliFlags CliFlags
	}{
		{name: "unknown CLI theme", cliFlags: CliFlags{Theme: "neon"}},
		{name: "unknown file theme", file: "theme: neon\n"},
		{name: "bad log level", cliFlags: CliFlags{LogLevel: "trace"}},
		{name: "bad slide duration", file: "slide_duration: soon\n"},
		{name: "negative slide duration", file: "slide_duration: -1s\n"},
		{name: "malformed yaml", file: "theme: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			if tt.file != "" {
				require.NoError(t, os.WriteFile(".foview.yaml", []byte(tt.file), 0o600))
			}
			_, err := ResolveConfig(tt.cliFlags)
			assert.Error(t, err)
		})
	}
}
