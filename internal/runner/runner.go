// SPDX-License-Identifier: MPL-2.0

// Package runner resolves compatibility-layer installations (Proton,
// Wine, DXVK) to filesystem roots. A resolved Descriptor is immutable;
// callers treat it as a value.
package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"cellar-cli/internal/issue"
)

// Kind constants for the supported runner families.
const (
	// KindProton is a Wine-compatible runtime shipped as a Proton build.
	KindProton Kind = "proton"
	// KindWine is a plain Wine-compatible runtime.
	KindWine Kind = "wine"
	// KindDXVK is the DirectX-to-Vulkan translation layer.
	KindDXVK Kind = "dxvk"
)

type (
	// Kind identifies the runner family.
	Kind string

	// Descriptor is a resolved runner installation: identifier, extracted
	// version, filesystem root, and family. Immutable once resolved.
	Descriptor struct {
		ID      string
		Version string
		Root    string
		Kind    Kind
	}

	// Resolver discovers runner installations under the cellar runners
	// directory and, for Proton, under Steam's compatibility tool
	// locations.
	Resolver struct {
		// RunnersDir is the cellar-managed runners directory, containing
		// proton/ and dxvk/ subdirectories.
		RunnersDir string
		// SteamDirs are candidate Steam roots scanned for Proton builds.
		// Defaults to the usual ~/.steam and ~/.local/share/Steam roots.
		SteamDirs []string
	}
)

// versionPattern extracts the numeric version from names like
// "GE-Proton9-4" or "Proton 8.0".
var versionPattern = regexp.MustCompile(`(?i)proton[^\d]*(\d+(?:[.-]\d+)*)`)

// NewResolver creates a Resolver rooted at runnersDir with the default
// Steam locations.
func NewResolver(runnersDir string) *Resolver {
	r := &Resolver{RunnersDir: runnersDir}
	if home, err := os.UserHomeDir(); err == nil {
		r.SteamDirs = []string{
			filepath.Join(home, ".steam", "steam"),
			filepath.Join(home, ".local", "share", "Steam"),
		}
	}
	return r
}

// IsValid reports whether the Kind is one of the known runner families.
func (k Kind) IsValid() bool {
	switch k {
	case KindProton, KindWine, KindDXVK:
		return true
	}
	return false
}

// IsWineCompatible reports whether the runner family can own a Wine
// prefix. DXVK is a translation layer installed into a prefix, not a
// runtime.
func (k Kind) IsWineCompatible() bool {
	return k == KindProton || k == KindWine
}

// Discover lists all runner installations found on this system. Steam
// Proton builds are included so games can reference versions cellar did
// not install itself. Missing directories are skipped, not errors.
func (r *Resolver) Discover() ([]Descriptor, error) {
	var found []Descriptor

	protonDirs := []string{filepath.Join(r.RunnersDir, "proton")}
	for _, steam := range r.SteamDirs {
		protonDirs = append(protonDirs,
			filepath.Join(steam, "steamapps", "common"),
			filepath.Join(steam, "compatibilitytools.d"),
		)
	}

	for _, dir := range protonDirs {
		descs, err := scanProtonDir(dir)
		if err != nil {
			return nil, err
		}
		found = append(found, descs...)
	}

	dxvkDescs, err := scanDXVKDir(filepath.Join(r.RunnersDir, "dxvk"))
	if err != nil {
		return nil, err
	}
	found = append(found, dxvkDescs...)

	return found, nil
}

// Resolve returns the Descriptor whose ID equals, or whose name
// contains, the given identifier. The first match wins, cellar-managed
// installations before Steam ones.
func (r *Resolver) Resolve(id string) (Descriptor, error) {
	if id == "" {
		return Descriptor{}, issue.NewErrorContext(issue.KindConfiguration).
			WithOperation("resolve runner").
			WithSuggestion("Set the game's runner_version field").
			Wrap(fmt.Errorf("empty runner identifier")).
			BuildError()
	}

	found, err := r.Discover()
	if err != nil {
		return Descriptor{}, err
	}

	for _, d := range found {
		if d.ID == id || d.Version == id || strings.Contains(d.ID, id) {
			return d, nil
		}
	}

	return Descriptor{}, issue.NewErrorContext(issue.KindConfiguration).
		WithOperation("resolve runner").
		WithResource(id).
		WithSuggestion("Run 'cellar runners list' to see installed versions").
		Wrap(os.ErrNotExist).
		BuildError()
}

// scanProtonDir returns a Descriptor for each subdirectory of dir that
// looks like a Proton installation (contains a proton launcher script).
func scanProtonDir(dir string) ([]Descriptor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan runner directory %s: %w", dir, err)
	}

	var found []Descriptor
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.Contains(strings.ToLower(name), "proton") {
			continue
		}
		root := filepath.Join(dir, name)
		if _, err := os.Stat(filepath.Join(root, "proton")); err != nil {
			continue
		}
		found = append(found, Descriptor{
			ID:      name,
			Version: extractVersion(name),
			Root:    root,
			Kind:    KindProton,
		})
	}
	return found, nil
}

// scanDXVKDir returns a Descriptor per extracted DXVK release directory.
func scanDXVKDir(dir string) ([]Descriptor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan runner directory %s: %w", dir, err)
	}

	var found []Descriptor
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		found = append(found, Descriptor{
			ID:      name,
			Version: strings.TrimPrefix(name, "dxvk-"),
			Root:    filepath.Join(dir, name),
			Kind:    KindDXVK,
		})
	}
	return found, nil
}

// extractVersion pulls the numeric version out of a runner directory
// name. Falls back to the full name when no version-looking token is
// present.
func extractVersion(name string) string {
	if m := versionPattern.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}
