// SPDX-License-Identifier: MPL-2.0

// Package config holds cellar's application settings and the on-disk
// game configuration store.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name, used for directory layout.
	AppName = "cellar"
	// ConfigFileName is the settings file name (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the settings file extension.
	ConfigFileExt = "toml"
)

type (
	// Settings are user-tunable application settings, loaded from the
	// config file with env-var overrides (CELLAR_*).
	Settings struct {
		// DataDir overrides the base data directory. Empty means the
		// XDG default (~/.local/share/cellar).
		DataDir string `mapstructure:"data_dir"`
		// DefaultRunner is the runner identifier used for new games when
		// none is given explicitly.
		DefaultRunner string `mapstructure:"default_runner"`
		// Verbose enables verbose diagnostics by default.
		Verbose bool `mapstructure:"verbose"`
		// Environment holds global variable defaults applied to every
		// launch. The lowest-precedence layer; per-game overrides win.
		Environment map[string]string `mapstructure:"environment"`
	}

	// Directories is the resolved directory layout every component works
	// against. Tests substitute temporary roots instead of relying on
	// baked-in paths.
	Directories struct {
		Base     string
		Runners  string
		Prefixes string
		Configs  string
		Cache    string
	}
)

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() *Settings {
	return &Settings{
		DefaultRunner: "GE-Proton9-4",
	}
}

// ConfigDir returns cellar's configuration directory following XDG
// conventions ($XDG_CONFIG_HOME, defaulting to ~/.config).
func ConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, AppName), nil
}

// LoadSettings reads the settings file and environment overrides.
// A missing config file is not an error; defaults apply.
func LoadSettings() (*Settings, error) {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("default_runner", defaults.DefaultRunner)
	v.SetDefault("verbose", defaults.Verbose)

	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileExt)
	if cfgDir, err := ConfigDir(); err == nil {
		v.AddConfigPath(cfgDir)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}

// ResolveDirectories computes the directory layout from settings,
// falling back to ~/.local/share/cellar ($XDG_DATA_HOME aware).
func ResolveDirectories(s *Settings) (Directories, error) {
	base := ""
	if s != nil {
		base = s.DataDir
	}
	if base == "" {
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return Directories{}, fmt.Errorf("failed to get home directory: %w", err)
			}
			dataHome = filepath.Join(home, ".local", "share")
		}
		base = filepath.Join(dataHome, AppName)
	}
	return DirectoriesAt(base), nil
}

// DirectoriesAt returns the layout rooted at base. Exposed so tests can
// point every component at a temp dir.
func DirectoriesAt(base string) Directories {
	return Directories{
		Base:     base,
		Runners:  filepath.Join(base, "runners"),
		Prefixes: filepath.Join(base, "prefixes"),
		Configs:  filepath.Join(base, "configs"),
		Cache:    filepath.Join(base, "cache"),
	}
}

// EnsureAll creates every directory in the layout.
func (d Directories) EnsureAll() error {
	for _, dir := range []string{d.Base, d.Runners, d.Prefixes, d.Configs, d.Cache} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// SanitizeName converts a game name into a safe file/directory stem:
// lowercased, spaces and path-hostile characters replaced.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, c := range strings.TrimSpace(name) {
		switch {
		case c == '/' || c == '\\' || c == ':' || c == '*' || c == '?' ||
			c == '"' || c == '<' || c == '>' || c == '|' || unicode.IsControl(c):
			b.WriteRune('_')
		case c == ' ':
			b.WriteRune('_')
		default:
			b.WriteRune(unicode.ToLower(c))
		}
	}
	return b.String()
}
