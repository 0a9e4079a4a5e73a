// SPDX-License-Identifier: MPL-2.0

// Package prefix manages isolated Wine prefix directories. A prefix is
// exclusively owned by one active session at a time; that discipline is
// enforced by the calling layer, not by a lock in here.
package prefix

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cellar-cli/internal/issue"
	"cellar-cli/internal/platform"
)

// DriveCDirName is the virtual C: drive directory inside a prefix.
const DriveCDirName = "drive_c"

type (
	// Handle identifies a prefix directory. The zero value is invalid;
	// obtain handles from a Manager.
	Handle struct {
		// Path is the prefix root directory.
		Path string
		// CreatedAt is when the directory was created, zero when unknown
		// (pre-existing prefixes).
		CreatedAt time.Time
	}

	// Manager creates and removes prefix directories under a common root.
	Manager struct {
		// Root is the directory holding all managed prefixes.
		Root string
	}
)

// NewManager returns a Manager rooted at root.
func NewManager(root string) *Manager {
	return &Manager{Root: root}
}

// PathFor returns the prefix directory for a sanitized game name
// without touching the filesystem.
func (m *Manager) PathFor(name string) string {
	return filepath.Join(m.Root, name)
}

// Create makes the prefix directory (and the managed root, if needed)
// and returns a Handle for it. Creating an already existing prefix is
// an error; the caller decides whether to reuse or remove first.
func (m *Manager) Create(name string) (Handle, error) {
	if platform.IsWindowsReservedName(name) {
		return Handle{}, issue.NewErrorContext(issue.KindValidation).
			WithOperation("create prefix").
			WithResource(name).
			WithSuggestion("Pick a name that is not reserved on Windows (CON, NUL, COM1, ...)").
			Wrap(fmt.Errorf("reserved Windows filename")).
			BuildError()
	}
	path := m.PathFor(name)

	if _, err := os.Stat(path); err == nil {
		return Handle{}, issue.NewErrorContext(issue.KindConfiguration).
			WithOperation("create prefix").
			WithResource(path).
			WithSuggestion("Remove it first with 'cellar prefix remove'").
			Wrap(os.ErrExist).
			BuildError()
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return Handle{}, issue.NewErrorContext(issue.KindConfiguration).
			WithOperation("create prefix").
			WithResource(path).
			Wrap(err).
			BuildError()
	}

	return Handle{Path: path, CreatedAt: time.Now()}, nil
}

// Open returns a Handle for an existing prefix directory.
func (m *Manager) Open(name string) (Handle, error) {
	path := m.PathFor(name)
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return Handle{}, issue.NewErrorContext(issue.KindConfiguration).
			WithOperation("open prefix").
			WithResource(path).
			WithSuggestion("Create it first with 'cellar prefix create'").
			Wrap(os.ErrNotExist).
			BuildError()
	}
	return Handle{Path: path, CreatedAt: info.ModTime()}, nil
}

// Remove deletes the prefix directory and everything in it.
func (m *Manager) Remove(h Handle) error {
	if h.Path == "" {
		return fmt.Errorf("remove prefix: empty handle")
	}
	if err := os.RemoveAll(h.Path); err != nil {
		return issue.NewErrorContext(issue.KindConfiguration).
			WithOperation("remove prefix").
			WithResource(h.Path).
			Wrap(err).
			BuildError()
	}
	return nil
}

// List returns the names of all prefixes under the managed root.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list prefixes: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Exists reports whether the handle's directory is present.
func (h Handle) Exists() bool {
	info, err := os.Stat(h.Path)
	return err == nil && info.IsDir()
}

// DriveC returns the virtual C: drive root of the prefix.
func (h Handle) DriveC() string {
	return filepath.Join(h.Path, DriveCDirName)
}

// Writable reports whether the prefix directory accepts writes. Probed
// with a real file because access-bit checks lie on some filesystems.
func (h Handle) Writable() bool {
	f, err := os.CreateTemp(h.Path, ".cellar-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

// ValidateStructure checks that first-run initialization completed, by
// probing for the drive_c/windows/system32 tree Wine always creates.
func (h Handle) ValidateStructure() error {
	system32 := filepath.Join(h.DriveC(), "windows", "system32")
	if _, err := os.Stat(system32); err != nil {
		return issue.NewErrorContext(issue.KindConfiguration).
			WithOperation("validate prefix").
			WithResource(h.Path).
			WithSuggestion("Recreate the prefix with 'cellar prefix create'").
			Wrap(fmt.Errorf("missing %s", system32)).
			BuildError()
	}
	return nil
}
