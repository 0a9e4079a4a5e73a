// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"path/filepath"
	"regexp"
	"strings"
)

// drivePattern matches a Windows drive-letter prefix like `C:\` or `c:/`.
var drivePattern = regexp.MustCompile(`^[A-Za-z]:[\\/]`)

// IsWindowsPath reports whether the input is a drive-letter-style path.
func IsWindowsPath(p string) bool {
	return drivePattern.MatchString(p)
}

// MapWindowsPath translates a drive-letter path into a host path under
// the prefix's virtual drive: `C:\Games\g.exe` with prefix `/p` becomes
// `/p/drive_c/Games/g.exe`. Every drive letter maps to the drive_c
// root; backslashes are normalized to the host separator. Inputs
// without a drive prefix are returned cleaned but otherwise untouched.
func (h Handle) MapWindowsPath(p string) string {
	if !IsWindowsPath(p) {
		return filepath.Clean(p)
	}
	rest := p[3:]
	rest = strings.ReplaceAll(rest, `\`, "/")
	return filepath.Join(h.DriveC(), filepath.FromSlash(rest))
}

// ContainsPath reports whether target lives under the prefix root after
// normalization. Used to reject executable paths that escape the prefix.
func (h Handle) ContainsPath(target string) bool {
	rel, err := filepath.Rel(h.Path, filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
