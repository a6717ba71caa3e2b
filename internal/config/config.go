package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config file names, searched in this order in each directory.
var fileNames = []string{".foview.yaml", ".foview.yml", ".foview.toml"}

// appDir is the subdirectory of the user config dir that is searched.
const appDir = "foview"

// FileConfig mirrors .foview.yaml / .foview.toml. Pointer fields are nil
// when the file leaves them unset.
type FileConfig struct {
	Theme         string       `yaml:"theme" toml:"theme"`
	NoColor       *bool        `yaml:"no_color" toml:"no_color"`
	LegacyMenus   *bool        `yaml:"legacy_menus" toml:"legacy_menus"`
	Watch         *bool        `yaml:"watch" toml:"watch"`
	SlideDuration string       `yaml:"slide_duration" toml:"slide_duration"`
	Filter        FilterConfig `yaml:"filter" toml:"filter"`
	Log           LogConfig    `yaml:"log" toml:"log"`
}

// FilterConfig is the startup filter preset. It seeds the criteria a session
// starts with and is never saved back; reset ignores it.
type FilterConfig struct {
	Name string `yaml:"name" toml:"name"`
	Pass *bool  `yaml:"pass" toml:"pass"`
	Fail *bool  `yaml:"fail" toml:"fail"`
	Skip *bool  `yaml:"skip" toml:"skip"`
}

// LogConfig selects where and how verbosely to log.
type LogConfig struct {
	File  string `yaml:"file" toml:"file"`
	Level string `yaml:"level" toml:"level"`
}

// FindConfigPath returns the first config file found in the working
// directory, then in the user config directory, or "" when there is none.
func FindConfigPath() string {
	for _, name := range fileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}

	configHome, err := os.UserConfigDir()
	// An empty or root config dir is not usable.
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	for _, name := range fileNames {
		p := filepath.Join(configHome, appDir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadFile parses the config file at path. The format follows the extension:
// .toml is TOML, anything else YAML.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg FileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		return &cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// loadConfig returns the explicit file when given, the discovered file
// otherwise, and an empty config when neither exists.
func loadConfig(explicit string) (*FileConfig, string, error) {
	path := explicit
	if path == "" {
		path = FindConfigPath()
	}
	if path == "" {
		return &FileConfig{}, "", nil
	}
	cfg, err := LoadFile(path)
	if err != nil {
		if explicit == "" && errors.Is(err, os.ErrNotExist) {
			return &FileConfig{}, "", nil
		}
		return nil, path, err
	}
	return cfg, path, nil
}

func parseSlideDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid slide_duration %q: %w", s, err)
	}
	return d, nil
}
