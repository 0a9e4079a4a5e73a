// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"fmt"

	"mvdan.cc/sh/v3/shell"

	"cellar-cli/internal/config"
	"cellar-cli/internal/issue"
)

const (
	// LauncherBinary is the runner launcher invoked for every operation.
	LauncherBinary = "umu-run"

	// PlaceholderToken marks, in a launch-option template, where the
	// generated base command is inserted. Only the first occurrence is
	// substituted; later occurrences stay literal (documented
	// limitation, no recursive expansion).
	PlaceholderToken = "%command%"

	// gamescopeSeparator separates gamescope's own flags from the
	// wrapped command.
	gamescopeSeparator = "--"
)

type (
	// Spec is the input to BuildCommand: the target, its opaque
	// arguments, the user template, and the wrapper toggles.
	Spec struct {
		// Executable is the target path, passed to the launcher verbatim.
		Executable string
		// Args are appended after the executable as opaque tokens; they
		// are never re-parsed through a shell.
		Args []string
		// Template is the Steam-style launch-option string. It may
		// contain at most one meaningful PlaceholderToken.
		Template string

		Mangohud  config.MangohudOptions
		Gamescope config.GamescopeOptions
	}

	// Plan is the computed invocation: merged environment plus the final
	// layered argv. It is a value object with no identity.
	Plan struct {
		Env  map[string]string
		Args []string
	}
)

// upscaleFlags maps the configured upscale mode to gamescope flags.
var upscaleFlags = map[string][]string{
	"fsr":     {"-F", "fsr"},
	"nis":     {"-F", "nis"},
	"integer": {"-S", "integer"},
	"stretch": {"-S", "stretch"},
	"linear":  {"-n"},
	"nearest": {"-b"},
	"off":     nil,
	"":        nil,
}

// Program returns the first argv token.
func (p Plan) Program() string {
	if len(p.Args) == 0 {
		return ""
	}
	return p.Args[0]
}

// Argv returns the tokens after the program.
func (p Plan) Argv() []string {
	if len(p.Args) == 0 {
		return nil
	}
	return p.Args[1:]
}

// BuildCommand computes the final layered command line. Pure, no side
// effects. The environment map is attached as-is.
//
// Layering, inside out: launcher + target + args, then the template
// (placeholder substitution or verbatim prepend), then mangohud as a
// command prefix, then gamescope as the outermost wrapper — gamescope
// must own the compositor before any inner process starts.
func BuildCommand(spec Spec, env map[string]string) (Plan, error) {
	base := make([]string, 0, 2+len(spec.Args))
	base = append(base, LauncherBinary, spec.Executable)
	base = append(base, spec.Args...)

	args, err := applyTemplate(spec.Template, base, env)
	if err != nil {
		return Plan{}, err
	}

	// Mangohud wraps by command prefix, not by environment toggle, for
	// correctness with overlay injection.
	if spec.Mangohud.Enabled {
		args = append([]string{"mangohud"}, args...)
	}

	if spec.Gamescope.Enabled {
		args, err = wrapGamescope(spec.Gamescope, args)
		if err != nil {
			return Plan{}, err
		}
	}

	return Plan{Env: env, Args: args}, nil
}

// applyTemplate splices the base command into the launch-option
// template. An empty template returns base unchanged. A template
// without the placeholder is prepended verbatim. Otherwise exactly the
// first placeholder occurrence is replaced.
func applyTemplate(template string, base []string, env map[string]string) ([]string, error) {
	if template == "" {
		return base, nil
	}

	tokens, err := shell.Fields(template, func(name string) string { return env[name] })
	if err != nil {
		return nil, issue.NewErrorContext(issue.KindValidation).
			WithOperation("parse launch options").
			WithResource(template).
			WithSuggestion("Check quoting in the launch_options field").
			Wrap(err).
			BuildError()
	}

	idx := -1
	for i, tok := range tokens {
		if tok == PlaceholderToken {
			idx = i
			break
		}
	}

	if idx == -1 {
		return append(tokens, base...), nil
	}

	out := make([]string, 0, len(tokens)-1+len(base))
	out = append(out, tokens[:idx]...)
	out = append(out, base...)
	out = append(out, tokens[idx+1:]...)
	return out, nil
}

// wrapGamescope nests the command as the trailing argument of a
// gamescope invocation. Flags derive one-to-one from configuration.
func wrapGamescope(gs config.GamescopeOptions, inner []string) ([]string, error) {
	flags, ok := upscaleFlags[gs.Upscaling]
	if !ok {
		return nil, issue.NewErrorContext(issue.KindValidation).
			WithOperation("build gamescope command").
			WithResource(gs.Upscaling).
			WithSuggestion("Valid upscaling modes: fsr, nis, integer, stretch, linear, nearest, off").
			Wrap(fmt.Errorf("invalid upscaling mode")).
			BuildError()
	}

	cmd := []string{
		"gamescope",
		"-w", fmt.Sprint(gs.Width),
		"-h", fmt.Sprint(gs.Height),
		"-W", fmt.Sprint(gs.OutputWidth),
		"-H", fmt.Sprint(gs.OutputHeight),
		"-r", fmt.Sprint(gs.RefreshRate),
	}
	cmd = append(cmd, flags...)

	if gs.Fullscreen {
		cmd = append(cmd, "-f")
	}
	if gs.Borderless {
		cmd = append(cmd, "--borderless")
	}
	if gs.ForceGrabCursor {
		cmd = append(cmd, "--force-grab-cursor")
	}
	if gs.ExposeWayland {
		cmd = append(cmd, "--expose-wayland")
	}
	if gs.HDR {
		cmd = append(cmd, "--hdr-enabled")
	}
	if gs.AdaptiveSync {
		cmd = append(cmd, "--adaptive-sync")
	}
	if gs.ImmediateFlips {
		cmd = append(cmd, "--immediate-flips")
	}

	cmd = append(cmd, gamescopeSeparator)
	return append(cmd, inner...), nil
}
