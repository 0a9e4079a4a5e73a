// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"os"
	"path/filepath"
	"strings"
)

// MarkerFileName is the fixed name of the version marker written under
// a prefix root when the prefix is created. It holds the runner
// identifier and, once written, is authoritative for auto-detection
// until explicitly overridden.
const MarkerFileName = ".cellar-runner"

// WriteMarker persists the runner identifier for a prefix.
func WriteMarker(prefixPath, id string) error {
	return os.WriteFile(filepath.Join(prefixPath, MarkerFileName), []byte(id+"\n"), 0o644)
}

// DetectPrefixRunner looks up the runner identifier recorded for a
// prefix. This is a weak back-reference from prefix to runner: it
// returns the identifier only, leaving resolution to the Resolver, and
// reports ok=false when no marker exists.
func DetectPrefixRunner(prefixPath string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(prefixPath, MarkerFileName))
	if err != nil {
		return "", false
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", false
	}
	return id, true
}
