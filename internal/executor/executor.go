// SPDX-License-Identifier: MPL-2.0

// Package executor spawns target processes and classifies their
// failures. The one distinction that matters to callers: a spawn
// failure (the process never started) is a configuration problem and
// never retried, while a non-zero exit (the process ran and failed)
// feeds the caller's retry decision.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"

	"github.com/charmbracelet/log"

	"cellar-cli/internal/issue"
)

// Execution modes.
const (
	// ModeVisible inherits the parent's standard streams. Required for
	// interactive targets (installer GUIs, winecfg); no output is
	// captured.
	ModeVisible Mode = "visible"
	// ModeManaged captures combined output and filters runtime noise
	// from it. Used for non-interactive launches.
	ModeManaged Mode = "managed"
)

type (
	// Mode selects how the child's streams are handled.
	Mode string

	// Request describes one process to spawn.
	Request struct {
		Program string
		Args    []string
		// Env entries overlay the parent environment; they never replace
		// it wholesale, since the launcher needs PATH and the display
		// variables.
		Env map[string]string
		Dir string

		Mode Mode
	}

	// Result reports how a completed process ended.
	Result struct {
		ExitCode int
		// Output is the raw combined output. Empty in visible mode.
		Output string
		// FilteredOutput is Output with runtime noise removed.
		FilteredOutput string
	}

	// Executor runs requests. The zero value is not usable; construct
	// with New.
	Executor struct {
		logger *log.Logger
		filter FilterRules
	}
)

// New returns an Executor using the default noise filter.
func New(logger *log.Logger) *Executor {
	return &Executor{
		logger: logger,
		filter: DefaultFilterRules(),
	}
}

// IsValid reports whether the Mode is one of the known modes.
func (m Mode) IsValid() bool {
	return m == ModeVisible || m == ModeManaged
}

// Execute spawns the request and blocks until the child exits or ctx
// is cancelled.
//
// Error classification: a spawn failure returns an error matching
// issue.ErrSpawn with a zero Result; a process that started but exited
// non-zero returns the populated Result together with an error
// matching issue.ErrExit. A zero exit returns (Result, nil).
func (e *Executor) Execute(ctx context.Context, req Request) (Result, error) {
	if !req.Mode.IsValid() {
		return Result{}, issue.NewErrorContext(issue.KindValidation).
			WithOperation("execute process").
			Wrap(fmt.Errorf("unknown execution mode '%s'", req.Mode)).
			BuildError()
	}

	cmd := exec.CommandContext(ctx, req.Program, req.Args...)
	cmd.Dir = req.Dir
	cmd.Env = mergeEnviron(os.Environ(), req.Env)

	var captured bytes.Buffer
	switch req.Mode {
	case ModeVisible:
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	case ModeManaged:
		cmd.Stdout = &captured
		cmd.Stderr = &captured
	}

	e.logger.Debug("spawning process",
		"program", req.Program,
		"args", req.Args,
		"mode", req.Mode,
	)

	if err := cmd.Start(); err != nil {
		return Result{}, issue.NewErrorContext(issue.KindSpawn).
			WithOperation("spawn process").
			WithResource(req.Program).
			WithSuggestion("Verify the program exists and is executable").
			WithSuggestion("Check that the launcher is installed and on PATH").
			Wrap(err).
			BuildError()
	}

	waitErr := cmd.Wait()

	res := Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Output:   captured.String(),
	}
	res.FilteredOutput = e.filter.Apply(res.Output)

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			// Wait failed for an I/O reason, not a process exit.
			return res, issue.NewErrorContext(issue.KindSpawn).
				WithOperation("wait for process").
				WithResource(req.Program).
				Wrap(waitErr).
				BuildError()
		}
		e.logger.Debug("process exited non-zero",
			"program", req.Program,
			"code", res.ExitCode,
		)
		return res, issue.NewErrorContext(issue.KindExit).
			WithOperation("run process").
			WithResource(req.Program).
			WithSuggestion("Inspect the process output for the cause").
			Wrap(fmt.Errorf("exit status %d", res.ExitCode)).
			BuildError()
	}

	return res, nil
}

// mergeEnviron overlays kv pairs from overrides onto the base
// environment. Later entries win, so overrides are appended in sorted
// key order for deterministic output.
func mergeEnviron(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, len(base), len(base)+len(overrides))
	copy(out, base)
	for _, k := range keys {
		out = append(out, k+"="+overrides[k])
	}
	return out
}
