package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dkoosis/foview/internal/logging"
	"github.com/dkoosis/foview/pkg/filter"
	"github.com/dkoosis/foview/pkg/render"
)

// Where a resolved value came from.
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// Defaults.
const (
	DefaultTheme         = "default"
	DefaultSlideDuration = 200 * time.Millisecond
	DefaultLogLevel      = logging.LevelInfo
)

// CliFlags holds the values of command-line flags. The *Set fields record
// whether the user gave the flag explicitly.
type CliFlags struct {
	ConfigPath  string
	Theme       string
	NoColor     bool
	LegacyMenus bool
	Watch       bool
	LogFile     string
	LogLevel    string

	NoColorSet     bool
	LegacyMenusSet bool
	WatchSet       bool
}

// ResolvedConfig holds the final configuration after applying all priority
// rules.
type ResolvedConfig struct {
	Theme         string
	NoColor       bool
	LegacyMenus   bool
	Watch         bool
	SlideDuration time.Duration

	// Filter seeds a session's first criteria. Reset ignores it.
	Filter filter.Criteria

	LogFile  string
	LogLevel string

	// Resolution metadata, for debugging.
	ConfigPath     string
	ThemeSource    string
	NoColorSource  string
	LogLevelSource string
	FilterSource   string
}

// ResolveConfig resolves configuration from all sources with explicit
// priority order: CLI flags, then environment, then the config file, then
// defaults.
func ResolveConfig(cli CliFlags) (*ResolvedConfig, error) {
	file, path, err := loadConfig(cli.ConfigPath)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedConfig{
		Theme:          DefaultTheme,
		SlideDuration:  DefaultSlideDuration,
		Filter:         filter.Default(),
		LogLevel:       DefaultLogLevel,
		ConfigPath:     path,
		ThemeSource:    SourceDefault,
		NoColorSource:  SourceDefault,
		LogLevelSource: SourceDefault,
		FilterSource:   SourceDefault,
	}
	if err := resolved.applyFile(file); err != nil {
		return nil, err
	}

	// Theme: CLI > env > file > default
	if cli.Theme != "" {
		resolved.Theme, resolved.ThemeSource = cli.Theme, SourceCLI
	} else if env := os.Getenv("FOVIEW_THEME"); env != "" {
		resolved.Theme, resolved.ThemeSource = env, SourceEnv
	}

	// NoColor: CLI > env > file > default
	if cli.NoColorSet {
		resolved.NoColor, resolved.NoColorSource = cli.NoColor, SourceCLI
	} else if env := getEnvBool("FOVIEW_NO_COLOR"); env != nil {
		resolved.NoColor, resolved.NoColorSource = *env, SourceEnv
	} else if os.Getenv("NO_COLOR") != "" {
		// no-color.org: any non-empty value disables colour.
		resolved.NoColor, resolved.NoColorSource = true, SourceEnv
	}

	// LogLevel: CLI > FOVIEW_DEBUG > FOVIEW_LOG_LEVEL > file > default
	switch {
	case cli.LogLevel != "":
		resolved.LogLevel, resolved.LogLevelSource = cli.LogLevel, SourceCLI
	case os.Getenv("FOVIEW_DEBUG") != "":
		resolved.LogLevel, resolved.LogLevelSource = logging.LevelDebug, SourceEnv
	case os.Getenv("FOVIEW_LOG_LEVEL") != "":
		resolved.LogLevel, resolved.LogLevelSource = os.Getenv("FOVIEW_LOG_LEVEL"), SourceEnv
	}

	if cli.LegacyMenusSet {
		resolved.LegacyMenus = cli.LegacyMenus
	}
	if cli.WatchSet {
		resolved.Watch = cli.Watch
	}
	if cli.LogFile != "" {
		resolved.LogFile = cli.LogFile
	}

	if err := validateResolvedConfig(resolved); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return resolved, nil
}

func (r *ResolvedConfig) applyFile(f *FileConfig) error {
	if f.Theme != "" {
		r.Theme, r.ThemeSource = f.Theme, SourceFile
	}
	if f.NoColor != nil {
		r.NoColor, r.NoColorSource = *f.NoColor, SourceFile
	}
	if f.LegacyMenus != nil {
		r.LegacyMenus = *f.LegacyMenus
	}
	if f.Watch != nil {
		r.Watch = *f.Watch
	}
	if f.SlideDuration != "" {
		d, err := parseSlideDuration(f.SlideDuration)
		if err != nil {
			return err
		}
		r.SlideDuration = d
	}
	if f.Log.File != "" {
		r.LogFile = f.Log.File
	}
	if f.Log.Level != "" {
		r.LogLevel, r.LogLevelSource = f.Log.Level, SourceFile
	}

	fc := f.Filter
	if fc.Name != "" || fc.Pass != nil || fc.Fail != nil || fc.Skip != nil {
		r.Filter.Name = fc.Name
		if fc.Pass != nil {
			r.Filter.ShowPass = *fc.Pass
		}
		if fc.Fail != nil {
			r.Filter.ShowFail = *fc.Fail
		}
		if fc.Skip != nil {
			r.Filter.ShowSkip = *fc.Skip
		}
		r.FilterSource = SourceFile
	}
	return nil
}

// getEnvBool reads a boolean from environment variables, trying multiple keys.
// Returns nil if none are set to a parseable value.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				return &b
			}
		}
	}
	return nil
}

// validateResolvedConfig validates the resolved configuration and returns errors for invalid states.
func validateResolvedConfig(cfg *ResolvedConfig) error {
	if !render.IsTheme(cfg.Theme) {
		return fmt.Errorf("unknown theme %q (from %s; want one of %v)", cfg.Theme, cfg.ThemeSource, render.ThemeNames())
	}
	if !logging.ValidLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid log level %q (from %s; want DEBUG, INFO, WARN or ERROR)", cfg.LogLevel, cfg.LogLevelSource)
	}
	if cfg.SlideDuration < 0 {
		return fmt.Errorf("slide_duration must not be negative, got: %s", cfg.SlideDuration)
	}
	return nil
}
