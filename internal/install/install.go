// SPDX-License-Identifier: MPL-2.0

// Package install drives a user-supervised installer run to
// completion. The state machine never decides on its own whether an
// installation succeeded; exit codes cannot be trusted for that (many
// installers exit non-zero on user cancel or pending reboot), so
// success is always an explicit user confirmation the machine merely
// records.
package install

import (
	"time"

	"github.com/google/uuid"

	"cellar-cli/internal/prefix"
)

// Session states. Configured and Cancelled are terminal.
const (
	StateCreated                 State = "created"
	StateRunning                 State = "running"
	StateAwaitingConfirmation    State = "awaiting_confirmation"
	StateAwaitingExecutablePath  State = "awaiting_executable_path"
	StateConfigured              State = "configured"
	StateAwaitingRetryDecision   State = "awaiting_retry_decision"
	StateAwaitingCleanupDecision State = "awaiting_cleanup_decision"
	StateCancelled               State = "cancelled"
)

// Input kinds accepted by the machine.
const (
	// InputStart launches the installer from Created.
	InputStart InputKind = "start"
	// InputConfirm answers "did the installation succeed?".
	InputConfirm InputKind = "confirm"
	// InputRetry answers "run the installer again?".
	InputRetry InputKind = "retry"
	// InputCleanup answers "remove the prefix?".
	InputCleanup InputKind = "cleanup"
	// InputExecutablePath supplies the installed executable's path.
	InputExecutablePath InputKind = "executable_path"
)

type (
	// State is one node of the installation state machine.
	State string

	// InputKind discriminates the user decisions fed into Advance.
	InputKind string

	// Input is one explicit user decision. Prompts are modeled as
	// inputs, not embedded control flow, so the machine can be driven
	// by a scripted harness without a terminal.
	Input struct {
		Kind   InputKind
		Accept bool
		Path   string
	}

	// Session is one installation in progress: the owned prefix, the
	// installer, and the decisions recorded so far. A session owns its
	// prefix exclusively until it reaches a terminal state.
	Session struct {
		ID            uuid.UUID
		GameName      string
		RunnerID      string
		Prefix        prefix.Handle
		InstallerPath string

		State    State
		Attempts int
		// Executable is the validated host path of the installed
		// program. Set only on the transition into Configured.
		Executable string
		// Errors accumulates non-fatal outcome reports (exit codes,
		// rejected paths) for display at session end.
		Errors []string

		StartedAt time.Time
	}
)

// NewSession returns a session in the Created state.
func NewSession(gameName, runnerID string, pfx prefix.Handle, installerPath string) *Session {
	return &Session{
		ID:            uuid.New(),
		GameName:      gameName,
		RunnerID:      runnerID,
		Prefix:        pfx,
		InstallerPath: installerPath,
		State:         StateCreated,
		StartedAt:     time.Now(),
	}
}

// IsValid reports whether the State is one of the known states.
func (s State) IsValid() bool {
	switch s {
	case StateCreated, StateRunning, StateAwaitingConfirmation,
		StateAwaitingExecutablePath, StateConfigured,
		StateAwaitingRetryDecision, StateAwaitingCleanupDecision,
		StateCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further input is accepted.
func (s State) Terminal() bool {
	return s == StateConfigured || s == StateCancelled
}

// Start is the input that launches the installer.
func Start() Input { return Input{Kind: InputStart} }

// Confirm answers the success question.
func Confirm(ok bool) Input { return Input{Kind: InputConfirm, Accept: ok} }

// Retry answers the run-again question.
func Retry(ok bool) Input { return Input{Kind: InputRetry, Accept: ok} }

// Cleanup answers the remove-prefix question.
func Cleanup(ok bool) Input { return Input{Kind: InputCleanup, Accept: ok} }

// ExecutablePath supplies the installed program's path, either a
// drive-letter path inside the prefix or a host filesystem path.
func ExecutablePath(p string) Input { return Input{Kind: InputExecutablePath, Path: p} }
