// SPDX-License-Identifier: MPL-2.0

// Package launch computes process invocations for Wine prefixes: the
// merged environment a target process receives and the layered command
// line that wraps it. Both halves are pure; nothing in this package
// touches the external world beyond read-only existence checks during
// environment composition.
package launch

import "cellar-cli/internal/config"

// Operation kinds accepted by the Environment Composer.
const (
	// OpCreate bootstraps a fresh prefix.
	OpCreate Operation = "create"
	// OpRun launches a configured game.
	OpRun Operation = "run"
	// OpInstall runs an installer inside a prefix. Always executed in
	// visible mode, never spawn-retried.
	OpInstall Operation = "install"
	// OpUtility runs an ad-hoc tool (winecfg, regedit) inside a prefix.
	// Same composition as OpInstall.
	OpUtility Operation = "utility"
)

type (
	// Operation selects the per-kind environment rules.
	Operation string

	// Options carries the per-operation toggles and the three-layer env
	// override stack. Conflict policy, lowest to highest: GlobalEnv,
	// then PresetEnv, then GameEnv; a key from a higher layer fully
	// overwrites the lower one, values are never merged. The
	// platform-required keys (prefix path, runner path) are written
	// after all three layers and therefore always win.
	Options struct {
		Wine     config.WineOptions
		DXVK     config.DXVKOptions
		Mangohud config.MangohudOptions

		GlobalEnv map[string]string
		PresetEnv map[string]string
		GameEnv   map[string]string
	}

	// Layout names the directory conventions inside a runner
	// installation and a prefix. It exists so tests can substitute
	// temporary roots instead of relying on baked-in constants.
	Layout struct {
		// MonoCacheSubdir is the mono cache, relative to the runner root.
		MonoCacheSubdir string
		// GeckoCacheSubdir is the gecko cache, relative to the runner root.
		GeckoCacheSubdir string
		// DXVKCacheDirName is the shader-cache directory created under
		// the prefix root.
		DXVKCacheDirName string
	}
)

// IsValid reports whether the Operation is one of the known kinds.
func (o Operation) IsValid() bool {
	switch o {
	case OpCreate, OpRun, OpInstall, OpUtility:
		return true
	}
	return false
}

// Interactive reports whether the operation must run in visible mode
// with inherited streams. Installer GUIs and utilities are interactive
// by definition; their spawn is never retried.
func (o Operation) Interactive() bool {
	return o == OpInstall || o == OpUtility
}

// DefaultLayout returns the directory conventions of Proton builds.
func DefaultLayout() Layout {
	return Layout{
		MonoCacheSubdir:  "files/share/wine/mono",
		GeckoCacheSubdir: "files/share/wine/gecko",
		DXVKCacheDirName: "dxvk_cache",
	}
}
