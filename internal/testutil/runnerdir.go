// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// MakeProtonInstall creates a directory under parent that passes the
// Proton installation check: a proton launcher script inside a
// version-named directory. Returns the installation root.
func MakeProtonInstall(t testing.TB, parent, name string) string {
	t.Helper()
	root := filepath.Join(parent, name)
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "proton"), []byte("#!/usr/bin/env python3\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return root
}

// MakeDXVKInstall creates an empty DXVK release directory under parent.
func MakeDXVKInstall(t testing.TB, parent, name string) string {
	t.Helper()
	root := filepath.Join(parent, name)
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	return root
}
