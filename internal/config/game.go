// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"cellar-cli/internal/issue"
	"cellar-cli/internal/platform"
)

type (
	// GameConfig is the persisted per-game configuration. It is the
	// contract between the installation flow (which finalizes it) and
	// the launch flow (which consumes it).
	GameConfig struct {
		Game      GameInfo          `toml:"game"`
		Launch    LaunchOptions     `toml:"launch"`
		Wine      WineOptions       `toml:"wine"`
		DXVK      DXVKOptions       `toml:"dxvk"`
		Gamescope GamescopeOptions  `toml:"gamescope"`
		Mangohud  MangohudOptions   `toml:"mangohud"`
		Install   *InstallationInfo `toml:"installation,omitempty"`
	}

	// GameInfo identifies the game and its runtime binding.
	GameInfo struct {
		Name          string `toml:"name"`
		Executable    string `toml:"executable"`
		Prefix        string `toml:"prefix"`
		RunnerVersion string `toml:"runner_version"`
		DXVKVersion   string `toml:"dxvk_version,omitempty"`
	}

	// LaunchOptions shape the final command line.
	LaunchOptions struct {
		// LaunchOptions is a Steam-style template; at most one %command%
		// placeholder marks where the generated base command is inserted.
		LaunchOptions string `toml:"launch_options"`
		// GameArgs are passed to the executable verbatim as opaque tokens.
		GameArgs []string `toml:"game_args"`
		// Environment holds per-game variable overrides. This is the
		// highest-precedence layer; a key set here fully overwrites the
		// preset and global layers.
		Environment map[string]string `toml:"environment,omitempty"`
	}

	// WineOptions toggle runtime behavior.
	WineOptions struct {
		Esync             bool `toml:"esync"`
		Fsync             bool `toml:"fsync"`
		DXVK              bool `toml:"dxvk"`
		DXVKAsync         bool `toml:"dxvk_async"`
		LargeAddressAware bool `toml:"large_address_aware"`
	}

	// DXVKOptions configure the translation layer's overlay.
	DXVKOptions struct {
		HUD string `toml:"hud"`
	}

	// GamescopeOptions configure the compositor wrapper.
	GamescopeOptions struct {
		Enabled         bool   `toml:"enabled"`
		Width           int    `toml:"width"`
		Height          int    `toml:"height"`
		OutputWidth     int    `toml:"output_width"`
		OutputHeight    int    `toml:"output_height"`
		RefreshRate     int    `toml:"refresh_rate"`
		Upscaling       string `toml:"upscaling"`
		Fullscreen      bool   `toml:"fullscreen"`
		Borderless      bool   `toml:"borderless"`
		ForceGrabCursor bool   `toml:"force_grab_cursor"`
		ExposeWayland   bool   `toml:"expose_wayland"`
		HDR             bool   `toml:"hdr"`
		AdaptiveSync    bool   `toml:"adaptive_sync"`
		ImmediateFlips  bool   `toml:"immediate_flips"`
	}

	// MangohudOptions toggle the performance overlay wrapper.
	MangohudOptions struct {
		Enabled bool `toml:"enabled"`
	}

	// InstallationInfo records how the game got installed.
	InstallationInfo struct {
		InstallerPath string    `toml:"installer_path"`
		InstalledAt   time.Time `toml:"installed_at"`
		Attempts      int       `toml:"attempts"`
	}

	// Store persists game configs as TOML files keyed by sanitized name.
	Store struct {
		// Dir is the configs directory.
		Dir string
	}
)

// NewGameConfig returns a config with the defaults every new game
// starts from: esync/fsync/dxvk on, gamescope off at 1920x1080@60 with
// FSR upscaling.
func NewGameConfig(name string) *GameConfig {
	return &GameConfig{
		Game: GameInfo{Name: name},
		Wine: WineOptions{
			Esync:     true,
			Fsync:     true,
			DXVK:      true,
			DXVKAsync: true,
		},
		Gamescope: GamescopeOptions{
			Width:        1920,
			Height:       1080,
			OutputWidth:  1920,
			OutputHeight: 1080,
			RefreshRate:  60,
			Upscaling:    "fsr",
			Fullscreen:   true,
		},
	}
}

// Validate checks fields the launch path depends on.
func (c *GameConfig) Validate() error {
	if strings.TrimSpace(c.Game.Name) == "" {
		return issue.NewErrorContext(issue.KindValidation).
			WithOperation("validate game config").
			Wrap(fmt.Errorf("game name must not be empty")).
			BuildError()
	}
	if platform.IsWindowsReservedName(SanitizeName(c.Game.Name)) {
		return issue.NewErrorContext(issue.KindValidation).
			WithOperation("validate game config").
			WithResource(c.Game.Name).
			Wrap(fmt.Errorf("game name is a reserved Windows filename")).
			BuildError()
	}
	if c.Game.RunnerVersion == "" {
		return issue.NewErrorContext(issue.KindValidation).
			WithOperation("validate game config").
			WithResource(c.Game.Name).
			Wrap(fmt.Errorf("runner_version must not be empty")).
			BuildError()
	}
	return nil
}

// NewStore returns a Store writing into dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// pathFor returns the config file path for a game name.
func (s *Store) pathFor(name string) string {
	return filepath.Join(s.Dir, SanitizeName(name)+".toml")
}

// Save writes the config, creating the configs directory if needed.
func (s *Store) Save(cfg *GameConfig) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create configs directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize game config: %w", err)
	}

	path := s.pathFor(cfg.Game.Name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write game config %s: %w", path, err)
	}
	return nil
}

// Load reads a game's config by name.
func (s *Store) Load(name string) (*GameConfig, error) {
	path := s.pathFor(name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, issue.NewErrorContext(issue.KindConfiguration).
				WithOperation("load game config").
				WithResource(name).
				WithSuggestion("Run 'cellar list' to see configured games").
				Wrap(os.ErrNotExist).
				BuildError()
		}
		return nil, fmt.Errorf("failed to read game config %s: %w", path, err)
	}

	var cfg GameConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, issue.NewErrorContext(issue.KindConfiguration).
			WithOperation("parse game config").
			WithResource(path).
			WithSuggestion("Check the TOML syntax, or remove and re-add the game").
			Wrap(err).
			BuildError()
	}
	return &cfg, nil
}

// Remove deletes a game's config file.
func (s *Store) Remove(name string) error {
	path := s.pathFor(name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return issue.NewErrorContext(issue.KindConfiguration).
				WithOperation("remove game config").
				WithResource(name).
				Wrap(os.ErrNotExist).
				BuildError()
		}
		return fmt.Errorf("failed to remove game config %s: %w", path, err)
	}
	return nil
}

// List returns the sanitized names of all stored games, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list game configs: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".toml"))
	}
	sort.Strings(names)
	return names, nil
}
