// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"os"

	"cellar-cli/internal/config"
	"cellar-cli/internal/executor"
	"cellar-cli/internal/issue"
	"cellar-cli/internal/launch"
	"cellar-cli/internal/prefix"
	"cellar-cli/internal/runner"
)

// initTarget is the dummy executable passed to the launcher when a
// prefix is bootstrapped; the launcher initializes the prefix before
// it even tries to run the target.
const initTarget = "wineboot"

// newExecutor returns the process executor shared by all commands.
func newExecutor() *executor.Executor {
	return executor.New(logger)
}

// newResolver returns a runner resolver rooted at the configured
// runners directory.
func newResolver() *runner.Resolver {
	return runner.NewResolver(dirs.Runners)
}

// newStore returns the game configuration store.
func newStore() *config.Store {
	return config.NewStore(dirs.Configs)
}

// launchOptionsFrom translates a game config into composer options.
// Per-game environment overrides sit in the highest layer.
func launchOptionsFrom(cfg *config.GameConfig) launch.Options {
	return launch.Options{
		Wine:      cfg.Wine,
		DXVK:      cfg.DXVK,
		Mangohud:  cfg.Mangohud,
		GlobalEnv: settings.Environment,
		GameEnv:   cfg.Launch.Environment,
	}
}

// bootstrapPrefix creates a fresh prefix, runs the runner's first-time
// initialization inside it, and persists the runner marker so the
// prefix remembers which runner built it.
func bootstrapPrefix(ctx context.Context, name string, rt runner.Descriptor) (prefix.Handle, error) {
	mgr := prefix.NewManager(dirs.Prefixes)
	h, err := mgr.Create(config.SanitizeName(name))
	if err != nil {
		return prefix.Handle{}, err
	}

	composer := launch.NewComposer()
	env, err := composer.Compose(launch.OpCreate, rt, h, launch.Options{})
	if err != nil {
		return prefix.Handle{}, err
	}
	plan, err := launch.BuildCommand(launch.Spec{Executable: initTarget}, env)
	if err != nil {
		return prefix.Handle{}, err
	}

	logger.Info("initializing prefix", "path", h.Path, "runner", rt.ID)
	res, err := newExecutor().Execute(ctx, executor.Request{
		Program: plan.Program(),
		Args:    plan.Argv(),
		Env:     plan.Env,
		Mode:    executor.ModeManaged,
	})
	if err != nil {
		return prefix.Handle{}, err
	}
	if res.FilteredOutput != "" {
		logger.Debug("prefix initialization output", "output", res.FilteredOutput)
	}

	if err := runner.WriteMarker(h.Path, rt.ID); err != nil {
		return prefix.Handle{}, err
	}
	return h, nil
}

// resolveGameRunner resolves the runner recorded in a game config,
// falling back to the prefix marker, then the global default.
func resolveGameRunner(cfg *config.GameConfig) (runner.Descriptor, error) {
	id := cfg.Game.RunnerVersion
	if id == "" {
		if marked, ok := runner.DetectPrefixRunner(cfg.Game.Prefix); ok {
			id = marked
		}
	}
	if id == "" {
		id = settings.DefaultRunner
	}
	rt, err := newResolver().Resolve(id)
	if err != nil {
		return runner.Descriptor{}, newServiceError(err, issue.RunnerNotFoundId)
	}
	return rt, nil
}

// loadGameConfig loads a game config and tags failures with the
// matching issue catalogue entry.
func loadGameConfig(name string) (*config.GameConfig, error) {
	cfg, err := newStore().Load(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, newServiceError(err, issue.GameNotFoundId)
		}
		return nil, newServiceError(err, issue.ConfigLoadFailedId)
	}
	return cfg, nil
}

// checkPrefix distinguishes a missing prefix from an unwritable or
// half-initialized one before anything runs inside it.
func checkPrefix(pfx prefix.Handle) error {
	if !pfx.Exists() {
		return newServiceError(issue.NewErrorContext(issue.KindConfiguration).
			WithOperation("open prefix").
			WithResource(pfx.Path).
			Wrap(os.ErrNotExist).
			BuildError(), issue.PrefixNotFoundId)
	}
	if !pfx.Writable() {
		return newServiceError(issue.NewErrorContext(issue.KindConfiguration).
			WithOperation("open prefix").
			WithResource(pfx.Path).
			Wrap(os.ErrPermission).
			BuildError(), issue.PrefixNotWritableId)
	}
	if err := pfx.ValidateStructure(); err != nil {
		return newServiceError(err, issue.PrefixIncompleteId)
	}
	return nil
}

// checkExecutable verifies the configured executable still exists,
// mapping a C:\ style path through the prefix first.
func checkExecutable(pfx prefix.Handle, exe string) error {
	host := exe
	if prefix.IsWindowsPath(host) {
		host = pfx.MapWindowsPath(host)
	}
	if _, err := os.Stat(host); err != nil {
		return newServiceError(issue.NewErrorContext(issue.KindConfiguration).
			WithOperation("locate game executable").
			WithResource(exe).
			Wrap(err).
			BuildError(), issue.ExecutableNotFoundId)
	}
	return nil
}
