// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cellar-cli/internal/issue"
)

func TestManagerCreateOpenRemove(t *testing.T) {
	t.Parallel()

	m := NewManager(filepath.Join(t.TempDir(), "prefixes"))

	h, err := m.Create("my_game")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if !h.Exists() {
		t.Fatal("created prefix does not exist")
	}
	if h.Path != m.PathFor("my_game") {
		t.Errorf("handle path = %q, want %q", h.Path, m.PathFor("my_game"))
	}

	// Creating the same prefix again is a configuration error.
	if _, err := m.Create("my_game"); !errors.Is(err, issue.ErrConfiguration) {
		t.Errorf("second Create() error = %v, want configuration error", err)
	}

	// Reserved Windows names cannot become prefix directories.
	if _, err := m.Create("con"); !errors.Is(err, issue.ErrValidation) {
		t.Errorf("Create(con) error = %v, want validation error", err)
	}

	opened, err := m.Open("my_game")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if opened.Path != h.Path {
		t.Errorf("Open() path = %q, want %q", opened.Path, h.Path)
	}

	names, err := m.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(names) != 1 || names[0] != "my_game" {
		t.Errorf("List() = %v, want [my_game]", names)
	}

	if err := m.Remove(h); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if h.Exists() {
		t.Error("prefix still exists after Remove()")
	}
	if _, err := m.Open("my_game"); err == nil {
		t.Error("Open() after Remove() succeeded")
	}
}

func TestValidateStructure(t *testing.T) {
	t.Parallel()

	m := NewManager(t.TempDir())
	h, err := m.Create("bare")
	if err != nil {
		t.Fatal(err)
	}

	if err := h.ValidateStructure(); !errors.Is(err, issue.ErrConfiguration) {
		t.Errorf("ValidateStructure() on bare prefix = %v, want configuration error", err)
	}

	system32 := filepath.Join(h.DriveC(), "windows", "system32")
	if err := os.MkdirAll(system32, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := h.ValidateStructure(); err != nil {
		t.Errorf("ValidateStructure() on initialized prefix = %v, want nil", err)
	}
}

func TestMapWindowsPath(t *testing.T) {
	t.Parallel()

	h := Handle{Path: "/p"}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"backslashes", `C:\Games\g.exe`, "/p/drive_c/Games/g.exe"},
		{"forward slashes", "C:/Games/g.exe", "/p/drive_c/Games/g.exe"},
		{"lowercase drive", `c:\tools\run.exe`, "/p/drive_c/tools/run.exe"},
		{"other drive letter maps to drive_c", `D:\data\a.exe`, "/p/drive_c/data/a.exe"},
		{"host path untouched", "/p/drive_c/Games/g.exe", "/p/drive_c/Games/g.exe"},
		{"relative host path cleaned", "Games//g.exe", "Games/g.exe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := h.MapWindowsPath(tt.in); got != tt.want {
				t.Errorf("MapWindowsPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestContainsPath(t *testing.T) {
	t.Parallel()

	h := Handle{Path: "/p"}

	tests := []struct {
		name   string
		target string
		want   bool
	}{
		{"inside", "/p/drive_c/Games/g.exe", true},
		{"the root itself", "/p", true},
		{"outside", "/etc/passwd", false},
		{"escape via dotdot", "/p/../etc/passwd", false},
		{"sibling with shared name prefix", "/pfoo/g.exe", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := h.ContainsPath(tt.target); got != tt.want {
				t.Errorf("ContainsPath(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestWritable(t *testing.T) {
	t.Parallel()

	m := NewManager(t.TempDir())
	h, err := m.Create("w")
	if err != nil {
		t.Fatal(err)
	}
	if !h.Writable() {
		t.Error("fresh prefix reported not writable")
	}

	if os.Getuid() == 0 {
		t.Skip("root ignores permission bits")
	}
	if err := os.Chmod(h.Path, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(h.Path, 0o755) })
	if h.Writable() {
		t.Error("read-only prefix reported writable")
	}
}
