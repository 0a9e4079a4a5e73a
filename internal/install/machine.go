// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"cellar-cli/internal/issue"
	"cellar-cli/internal/prefix"
)

type (
	// InstallerRunner launches the session's installer in visible mode
	// and blocks until it exits. An error matching issue.ErrExit is a
	// normal outcome (the process ran); an error matching issue.ErrSpawn
	// means it never started.
	InstallerRunner interface {
		RunInstaller(ctx context.Context, s *Session) error
	}

	// PrefixRemover deletes a session's prefix on cleanup.
	PrefixRemover interface {
		RemovePrefix(h prefix.Handle) error
	}

	// Finalizer persists the completed game configuration. Called
	// exactly once, on the transition into Configured.
	Finalizer interface {
		FinalizeInstallation(s *Session) error
	}

	// Machine advances sessions through the installation states. It
	// only reports outcomes; every retry and cleanup decision comes in
	// as an Input.
	Machine struct {
		runner   InstallerRunner
		cleaner  PrefixRemover
		finalize Finalizer
		logger   *log.Logger
	}
)

// NewMachine wires the machine's collaborators.
func NewMachine(runner InstallerRunner, cleaner PrefixRemover, finalize Finalizer, logger *log.Logger) *Machine {
	return &Machine{
		runner:   runner,
		cleaner:  cleaner,
		finalize: finalize,
		logger:   logger,
	}
}

// Advance applies one input to the session and returns the resulting
// state. Inputs that do not fit the current state return a validation
// error and leave the session untouched.
//
// Launching is synchronous: on a start or retry input the session
// passes through Running inside this call, blocks on the installer,
// and lands in AwaitingConfirmation (any exit code) or
// AwaitingCleanupDecision (spawn failure, which is a configuration
// problem and never retry-eligible).
func (m *Machine) Advance(ctx context.Context, s *Session, in Input) (State, error) {
	if s.State.Terminal() {
		return s.State, issue.NewErrorContext(issue.KindValidation).
			WithOperation("advance installation").
			WithResource(s.GameName).
			Wrap(fmt.Errorf("session already ended in state '%s'", s.State)).
			BuildError()
	}

	switch s.State {
	case StateCreated:
		if in.Kind != InputStart {
			return s.State, m.unexpectedInput(s, in)
		}
		return m.launch(ctx, s)

	case StateAwaitingConfirmation:
		if in.Kind != InputConfirm {
			return s.State, m.unexpectedInput(s, in)
		}
		if in.Accept {
			s.State = StateAwaitingExecutablePath
		} else {
			s.State = StateAwaitingRetryDecision
		}
		return s.State, nil

	case StateAwaitingExecutablePath:
		if in.Kind != InputExecutablePath {
			return s.State, m.unexpectedInput(s, in)
		}
		return m.acceptExecutable(s, in.Path)

	case StateAwaitingRetryDecision:
		if in.Kind != InputRetry {
			return s.State, m.unexpectedInput(s, in)
		}
		if in.Accept {
			// Same prefix retained across attempts; partial installer
			// state is often reusable. No upper bound on attempts.
			return m.launch(ctx, s)
		}
		s.State = StateAwaitingCleanupDecision
		return s.State, nil

	case StateAwaitingCleanupDecision:
		if in.Kind != InputCleanup {
			return s.State, m.unexpectedInput(s, in)
		}
		return m.cleanup(s, in.Accept)

	default:
		return s.State, issue.NewErrorContext(issue.KindValidation).
			WithOperation("advance installation").
			Wrap(fmt.Errorf("session in unknown state '%s'", s.State)).
			BuildError()
	}
}

func (m *Machine) launch(ctx context.Context, s *Session) (State, error) {
	s.State = StateRunning
	s.Attempts++
	m.logger.Info("running installer",
		"game", s.GameName,
		"installer", s.InstallerPath,
		"attempt", s.Attempts,
	)

	err := m.runner.RunInstaller(ctx, s)
	switch {
	case err == nil:
		s.State = StateAwaitingConfirmation
		return s.State, nil
	case errors.Is(err, issue.ErrExit):
		// The installer ran and exited non-zero. That alone does not
		// mean failure; the user decides.
		s.Errors = append(s.Errors, err.Error())
		s.State = StateAwaitingConfirmation
		return s.State, nil
	case errors.Is(err, issue.ErrSpawn):
		s.Errors = append(s.Errors, err.Error())
		s.State = StateAwaitingCleanupDecision
		return s.State, err
	default:
		s.Errors = append(s.Errors, err.Error())
		s.State = StateAwaitingCleanupDecision
		return s.State, err
	}
}

// acceptExecutable validates the supplied path and, if it holds,
// finalizes the session. A rejected path re-prompts: the state and the
// attempt counter stay untouched.
func (m *Machine) acceptExecutable(s *Session, input string) (State, error) {
	host, err := m.resolveExecutable(s.Prefix, input)
	if err != nil {
		return s.State, err
	}

	s.Executable = host
	if err := m.finalize.FinalizeInstallation(s); err != nil {
		s.Executable = ""
		return s.State, err
	}
	s.State = StateConfigured
	m.logger.Info("installation configured",
		"game", s.GameName,
		"executable", host,
		"attempts", s.Attempts,
	)
	return s.State, nil
}

// resolveExecutable maps a drive-letter path into the prefix, then
// checks that the result lives under the prefix root, exists, and is
// marked executable.
func (m *Machine) resolveExecutable(pfx prefix.Handle, input string) (string, error) {
	host := input
	if prefix.IsWindowsPath(input) {
		host = pfx.MapWindowsPath(input)
	}

	reject := func(cause string) error {
		return issue.NewErrorContext(issue.KindValidation).
			WithOperation("validate executable path").
			WithResource(input).
			WithSuggestion(`Use a path inside the prefix, e.g. C:\Games\game\game.exe`).
			Wrap(fmt.Errorf("%s", cause)).
			BuildError()
	}

	if !pfx.ContainsPath(host) {
		return "", reject("path is outside the prefix")
	}
	info, err := os.Stat(host)
	if err != nil {
		return "", reject("path does not exist: " + host)
	}
	if info.IsDir() {
		return "", reject("path is a directory, not an executable")
	}
	if info.Mode().Perm()&0o111 == 0 {
		return "", reject("file is not marked executable")
	}
	return host, nil
}

func (m *Machine) cleanup(s *Session, remove bool) (State, error) {
	if remove {
		if err := m.cleaner.RemovePrefix(s.Prefix); err != nil {
			// Removal failure must not strand the session; report it
			// and end anyway.
			s.Errors = append(s.Errors, err.Error())
			s.State = StateCancelled
			return s.State, err
		}
		m.logger.Info("prefix removed", "path", s.Prefix.Path)
	}
	s.State = StateCancelled
	return s.State, nil
}

func (m *Machine) unexpectedInput(s *Session, in Input) error {
	return issue.NewErrorContext(issue.KindValidation).
		WithOperation("advance installation").
		WithResource(s.GameName).
		Wrap(fmt.Errorf("input '%s' not valid in state '%s'", in.Kind, s.State)).
		BuildError()
}
