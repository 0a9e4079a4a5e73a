// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"maps"
	"os"
	"path/filepath"

	"cellar-cli/internal/issue"
	"cellar-cli/internal/prefix"
	"cellar-cli/internal/runner"
)

// Environment variable names understood by the runner launcher.
const (
	EnvPrefix            = "WINEPREFIX"
	EnvArch              = "WINEARCH"
	EnvRunnerPath        = "PROTONPATH"
	EnvVerb              = "PROTON_VERB"
	EnvGameID            = "GAMEID"
	EnvHostLocale        = "HOST_LC_ALL"
	EnvDLLOverrides      = "WINEDLLOVERRIDES"
	EnvEsync             = "WINEESYNC"
	EnvFsync             = "WINEFSYNC"
	EnvLargeAddressAware = "WINE_LARGE_ADDRESS_AWARE"
	EnvDXVKAsync         = "DXVK_ASYNC"
	EnvDXVKHUD           = "DXVK_HUD"
	EnvDXVKStateCache    = "DXVK_STATE_CACHE_PATH"
	EnvMonoCache         = "WINE_MONO_CACHE_DIR"
	EnvGeckoCache        = "WINE_GECKO_CACHE_DIR"
)

const (
	// verbInitialize triggers first-run prefix initialization before the
	// target runs.
	verbInitialize = "run"
	// verbWaitForExit waits for the target process and returns its exit
	// code.
	verbWaitForExit = "waitforexitandrun"

	// defaultGameID is the generic identifier used when no specific
	// program is targeted (prefix creation, installers, utilities).
	defaultGameID = "umu-default"

	// dxvkDLLOverrides routes the D3D DLLs through DXVK (native, then
	// builtin).
	dxvkDLLOverrides = "d3d10core,d3d11,d3d9,dxgi=n,b"
)

// Composer builds the flat environment a target process receives.
type Composer struct {
	Layout Layout
}

// NewComposer returns a Composer with the default Proton layout.
func NewComposer() *Composer {
	return &Composer{Layout: DefaultLayout()}
}

// Compose merges the environment for one operation. Iteration order of
// the returned map is irrelevant; the target receives a flat
// environment.
//
// Layering, lowest to highest: operation-kind base variables, then
// GlobalEnv, PresetEnv, GameEnv overrides, then the platform-required
// keys (WINEPREFIX, PROTONPATH), which always win.
//
// Composition fails with a configuration error, never retried, when
// the runner root does not exist or the prefix is not writable.
func (c *Composer) Compose(op Operation, rt runner.Descriptor, pfx prefix.Handle, opts Options) (map[string]string, error) {
	if !op.IsValid() {
		return nil, issue.NewErrorContext(issue.KindConfiguration).
			WithOperation("compose environment").
			Wrap(errUnknownOperation(op)).
			BuildError()
	}

	if _, err := os.Stat(rt.Root); err != nil {
		return nil, issue.NewErrorContext(issue.KindConfiguration).
			WithOperation("compose environment for " + string(op)).
			WithResource(rt.Root).
			WithSuggestion("Run 'cellar runners list' to see installed runners").
			Wrap(err).
			BuildError()
	}

	if !pfx.Writable() {
		return nil, issue.NewErrorContext(issue.KindConfiguration).
			WithOperation("compose environment for " + string(op)).
			WithResource(pfx.Path).
			WithSuggestion("Check ownership and permissions of the prefix directory").
			Wrap(os.ErrPermission).
			BuildError()
	}

	env := map[string]string{
		EnvGameID:     defaultGameID,
		EnvHostLocale: "en_US.UTF-8",
	}

	switch op {
	case OpCreate:
		c.composeCreate(env, rt)
	case OpRun, OpInstall, OpUtility:
		c.composeRun(env, rt, pfx, opts)
	}

	// Override layers: lower precedence first, full overwrite per key.
	maps.Copy(env, opts.GlobalEnv)
	maps.Copy(env, opts.PresetEnv)
	maps.Copy(env, opts.GameEnv)

	// Platform-required keys are written last so no layer can displace
	// them.
	env[EnvPrefix] = pfx.Path
	env[EnvRunnerPath] = rt.Root

	return env, nil
}

// composeCreate sets the clean-bootstrap variables: forced 64-bit
// architecture, empty DLL overrides, and the runner's own bundled
// component caches so first-run setup does not redownload mono/gecko.
func (c *Composer) composeCreate(env map[string]string, rt runner.Descriptor) {
	env[EnvArch] = "win64"
	env[EnvVerb] = verbInitialize
	env[EnvDLLOverrides] = ""
	env[EnvMonoCache] = filepath.Join(rt.Root, filepath.FromSlash(c.Layout.MonoCacheSubdir))
	env[EnvGeckoCache] = filepath.Join(rt.Root, filepath.FromSlash(c.Layout.GeckoCacheSubdir))
}

// composeRun sets the launch variables: wait-for-exit verb, sync
// primitive encodings, and the DXVK toggles.
func (c *Composer) composeRun(env map[string]string, rt runner.Descriptor, pfx prefix.Handle, opts Options) {
	env[EnvArch] = "win64"
	env[EnvVerb] = verbWaitForExit

	if opts.Wine.Esync {
		env[EnvEsync] = "1"
	}
	if opts.Wine.Fsync {
		env[EnvFsync] = "1"
	}
	if opts.Wine.LargeAddressAware {
		env[EnvLargeAddressAware] = "1"
	}

	if opts.Wine.DXVK {
		env[EnvDLLOverrides] = dxvkDLLOverrides
		env[EnvDXVKStateCache] = filepath.Join(pfx.Path, c.Layout.DXVKCacheDirName)
		if opts.Wine.DXVKAsync {
			env[EnvDXVKAsync] = "1"
		}
		if opts.DXVK.HUD != "" {
			env[EnvDXVKHUD] = opts.DXVK.HUD
		} else {
			env[EnvDXVKHUD] = "0"
		}
	} else {
		env[EnvDLLOverrides] = ""
	}
}

type errUnknownOperation Operation

func (e errUnknownOperation) Error() string {
	return "unknown operation kind '" + string(e) + "'"
}
