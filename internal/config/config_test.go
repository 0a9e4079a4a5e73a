// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"cellar-cli/internal/testutil"
)

func TestConfigDirXDG(t *testing.T) {
	cleanup := testutil.MustSetenv(t, "XDG_CONFIG_HOME", "/xdg/config")
	defer cleanup()

	dir, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/xdg/config", AppName) {
		t.Errorf("ConfigDir() = %q", dir)
	}
}

func TestConfigDirHomeFallback(t *testing.T) {
	home := t.TempDir()
	defer testutil.MustSetenv(t, "XDG_CONFIG_HOME", "")()
	defer testutil.SetHomeDir(t, home)()
	os.Unsetenv("XDG_CONFIG_HOME")

	dir, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join(home, ".config", AppName) {
		t.Errorf("ConfigDir() = %q", dir)
	}
}

func TestResolveDirectoriesDataHomeFallback(t *testing.T) {
	home := t.TempDir()
	defer testutil.MustSetenv(t, "XDG_DATA_HOME", "")()
	defer testutil.SetHomeDir(t, home)()
	os.Unsetenv("XDG_DATA_HOME")

	dirs, err := ResolveDirectories(&Settings{})
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(home, ".local", "share", AppName)
	if dirs.Base != want {
		t.Errorf("Base = %q, want %q", dirs.Base, want)
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	home := t.TempDir()
	defer testutil.SetHomeDir(t, home)()
	defer testutil.MustSetenv(t, "XDG_CONFIG_HOME", filepath.Join(home, ".config"))()

	s, err := LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.DefaultRunner != DefaultSettings().DefaultRunner {
		t.Errorf("DefaultRunner = %q, want default", s.DefaultRunner)
	}
}

func TestLoadSettingsFromFile(t *testing.T) {
	home := t.TempDir()
	cfgDir := filepath.Join(home, ".config", AppName)
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "default_runner = \"GE-Proton8-25\"\nverbose = true\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	defer testutil.SetHomeDir(t, home)()
	defer testutil.MustSetenv(t, "XDG_CONFIG_HOME", filepath.Join(home, ".config"))()

	s, err := LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.DefaultRunner != "GE-Proton8-25" {
		t.Errorf("DefaultRunner = %q, want GE-Proton8-25", s.DefaultRunner)
	}
	if !s.Verbose {
		t.Error("Verbose = false, want true")
	}
}
