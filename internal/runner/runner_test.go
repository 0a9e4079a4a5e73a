// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cellar-cli/internal/issue"
	"cellar-cli/internal/testutil"
)

func TestExtractVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ge proton", "GE-Proton9-4", "9-4"},
		{"valve proton", "Proton 8.0", "8.0"},
		{"lowercase", "proton-experimental-7", "7"},
		{"no version", "SomethingElse", "SomethingElse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := extractVersion(tt.in); got != tt.want {
				t.Errorf("extractVersion(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	runnersDir := t.TempDir()
	steamDir := t.TempDir()

	testutil.MakeProtonInstall(t, filepath.Join(runnersDir, "proton"), "GE-Proton9-4")
	testutil.MakeProtonInstall(t, filepath.Join(steamDir, "steamapps", "common"), "Proton 8.0")

	// A proton-named dir without a launcher must be skipped.
	if err := os.MkdirAll(filepath.Join(runnersDir, "proton", "GE-Proton-broken"), 0o755); err != nil {
		t.Fatal(err)
	}

	// A DXVK release directory.
	testutil.MakeDXVKInstall(t, filepath.Join(runnersDir, "dxvk"), "dxvk-2.4")

	r := &Resolver{RunnersDir: runnersDir, SteamDirs: []string{steamDir}}
	found, err := r.Discover()
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	byID := map[string]Descriptor{}
	for _, d := range found {
		byID[d.ID] = d
	}

	if len(found) != 3 {
		t.Fatalf("Discover() found %d runners, want 3: %v", len(found), found)
	}
	if d := byID["GE-Proton9-4"]; d.Kind != KindProton || d.Version != "9-4" {
		t.Errorf("GE-Proton9-4 descriptor = %+v", d)
	}
	if d := byID["Proton 8.0"]; d.Kind != KindProton {
		t.Errorf("Steam Proton not discovered: %+v", found)
	}
	if d := byID["dxvk-2.4"]; d.Kind != KindDXVK || d.Version != "2.4" {
		t.Errorf("dxvk descriptor = %+v", d)
	}
	if _, ok := byID["GE-Proton-broken"]; ok {
		t.Error("directory without proton launcher was discovered")
	}
}

func TestDiscover_MissingDirsAreNotErrors(t *testing.T) {
	t.Parallel()

	r := &Resolver{
		RunnersDir: filepath.Join(t.TempDir(), "nope"),
		SteamDirs:  []string{filepath.Join(t.TempDir(), "nosteam")},
	}
	found, err := r.Discover()
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("Discover() = %v, want empty", found)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	runnersDir := t.TempDir()
	testutil.MakeProtonInstall(t, filepath.Join(runnersDir, "proton"), "GE-Proton9-4")
	r := &Resolver{RunnersDir: runnersDir}

	tests := []struct {
		name    string
		id      string
		wantID  string
		wantErr bool
	}{
		{"exact id", "GE-Proton9-4", "GE-Proton9-4", false},
		{"version match", "9-4", "GE-Proton9-4", false},
		{"substring match", "Proton9", "GE-Proton9-4", false},
		{"unknown", "GE-Proton1-1", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := r.Resolve(tt.id)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Resolve(%q) succeeded, want error", tt.id)
				}
				if !errors.Is(err, issue.ErrConfiguration) {
					t.Errorf("Resolve(%q) error is not a configuration error: %v", tt.id, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.id, err)
			}
			if d.ID != tt.wantID {
				t.Errorf("Resolve(%q).ID = %q, want %q", tt.id, d.ID, tt.wantID)
			}
		})
	}
}

func TestMarkerRoundTrip(t *testing.T) {
	t.Parallel()

	prefixPath := t.TempDir()

	if _, ok := DetectPrefixRunner(prefixPath); ok {
		t.Fatal("DetectPrefixRunner on empty prefix reported a runner")
	}

	if err := WriteMarker(prefixPath, "GE-Proton9-4"); err != nil {
		t.Fatalf("WriteMarker() error: %v", err)
	}

	id, ok := DetectPrefixRunner(prefixPath)
	if !ok || id != "GE-Proton9-4" {
		t.Errorf("DetectPrefixRunner() = %q, %v; want GE-Proton9-4, true", id, ok)
	}
}

func TestKind(t *testing.T) {
	t.Parallel()

	if !KindProton.IsWineCompatible() || !KindWine.IsWineCompatible() {
		t.Error("proton and wine kinds must be wine-compatible")
	}
	if KindDXVK.IsWineCompatible() {
		t.Error("dxvk is a translation layer, not a wine-compatible runtime")
	}
	if Kind("bogus").IsValid() {
		t.Error("unknown kind reported valid")
	}
}
