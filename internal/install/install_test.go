// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"cellar-cli/internal/issue"
	"cellar-cli/internal/prefix"
)

type stubRunner struct {
	// errs is consumed one entry per launch; nil past the end.
	errs  []error
	calls int
}

func (r *stubRunner) RunInstaller(_ context.Context, _ *Session) error {
	var err error
	if r.calls < len(r.errs) {
		err = r.errs[r.calls]
	}
	r.calls++
	return err
}

type stubCleaner struct {
	removed []string
	err     error
}

func (c *stubCleaner) RemovePrefix(h prefix.Handle) error {
	if c.err != nil {
		return c.err
	}
	c.removed = append(c.removed, h.Path)
	return os.RemoveAll(h.Path)
}

type stubFinalizer struct {
	calls int
	err   error
}

func (f *stubFinalizer) FinalizeInstallation(_ *Session) error {
	if f.err != nil {
		return f.err
	}
	f.calls++
	return nil
}

func exitError(code int) error {
	return issue.NewErrorContext(issue.KindExit).
		WithOperation("run process").
		Wrap(fmt.Errorf("exit status %d", code)).
		BuildError()
}

func spawnError() error {
	return issue.NewErrorContext(issue.KindSpawn).
		WithOperation("spawn process").
		Wrap(fmt.Errorf("no such file or directory")).
		BuildError()
}

// testPrefix builds a prefix directory with an installed executable at
// drive_c/Games/g.exe.
func testPrefix(t *testing.T) (prefix.Handle, string) {
	t.Helper()
	root := t.TempDir()
	exe := filepath.Join(root, "drive_c", "Games", "g.exe")
	if err := os.MkdirAll(filepath.Dir(exe), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(exe, []byte("MZ"), 0o755); err != nil {
		t.Fatal(err)
	}
	return prefix.Handle{Path: root}, exe
}

func testMachine(runner *stubRunner, cleaner *stubCleaner, fin *stubFinalizer) *Machine {
	return NewMachine(runner, cleaner, fin, log.New(io.Discard))
}

func advance(t *testing.T, m *Machine, s *Session, in Input, want State) {
	t.Helper()
	got, err := m.Advance(context.Background(), s, in)
	if err != nil {
		t.Fatalf("Advance(%s) failed: %v", in.Kind, err)
	}
	if got != want {
		t.Fatalf("Advance(%s) = %s, want %s", in.Kind, got, want)
	}
}

func TestRetryThenConfigured(t *testing.T) {
	t.Parallel()

	pfx, _ := testPrefix(t)
	runner := &stubRunner{errs: []error{exitError(1), nil}}
	fin := &stubFinalizer{}
	m := testMachine(runner, &stubCleaner{}, fin)
	s := NewSession("wings", "GE-Proton9-4", pfx, "/tmp/setup.exe")

	advance(t, m, s, Start(), StateAwaitingConfirmation)
	advance(t, m, s, Confirm(false), StateAwaitingRetryDecision)
	advance(t, m, s, Retry(true), StateAwaitingConfirmation)
	advance(t, m, s, Confirm(true), StateAwaitingExecutablePath)
	advance(t, m, s, ExecutablePath(`C:\Games\g.exe`), StateConfigured)

	if s.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", s.Attempts)
	}
	if runner.calls != 2 {
		t.Errorf("installer launched %d times, want 2", runner.calls)
	}
	if fin.calls != 1 {
		t.Errorf("finalizer called %d times, want exactly 1", fin.calls)
	}
	want := filepath.Join(pfx.Path, "drive_c", "Games", "g.exe")
	if s.Executable != want {
		t.Errorf("Executable = %q, want %q", s.Executable, want)
	}
}

func TestCleanupRemovesPrefix(t *testing.T) {
	t.Parallel()

	pfx, _ := testPrefix(t)
	m := testMachine(&stubRunner{errs: []error{exitError(2)}}, &stubCleaner{}, &stubFinalizer{})
	s := NewSession("wings", "GE-Proton9-4", pfx, "/tmp/setup.exe")

	advance(t, m, s, Start(), StateAwaitingConfirmation)
	advance(t, m, s, Confirm(false), StateAwaitingRetryDecision)
	advance(t, m, s, Retry(false), StateAwaitingCleanupDecision)
	advance(t, m, s, Cleanup(true), StateCancelled)

	if _, err := os.Stat(pfx.Path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("prefix %s still exists after cleanup", pfx.Path)
	}
}

func TestCleanupDeclinedKeepsPrefix(t *testing.T) {
	t.Parallel()

	pfx, _ := testPrefix(t)
	m := testMachine(&stubRunner{}, &stubCleaner{}, &stubFinalizer{})
	s := NewSession("wings", "GE-Proton9-4", pfx, "/tmp/setup.exe")

	advance(t, m, s, Start(), StateAwaitingConfirmation)
	advance(t, m, s, Confirm(false), StateAwaitingRetryDecision)
	advance(t, m, s, Retry(false), StateAwaitingCleanupDecision)
	advance(t, m, s, Cleanup(false), StateCancelled)

	if _, err := os.Stat(pfx.Path); err != nil {
		t.Errorf("prefix %s must survive a declined cleanup: %v", pfx.Path, err)
	}
}

func TestInvalidPathRepromptsWithoutConsumingAttempt(t *testing.T) {
	t.Parallel()

	pfx, exe := testPrefix(t)
	m := testMachine(&stubRunner{}, &stubCleaner{}, &stubFinalizer{})
	s := NewSession("wings", "GE-Proton9-4", pfx, "/tmp/setup.exe")

	advance(t, m, s, Start(), StateAwaitingConfirmation)
	advance(t, m, s, Confirm(true), StateAwaitingExecutablePath)

	rejected := []string{
		`C:\Games\missing.exe`,
		"/etc/passwd",
		filepath.Dir(exe),
	}
	for _, p := range rejected {
		got, err := m.Advance(context.Background(), s, ExecutablePath(p))
		if !errors.Is(err, issue.ErrValidation) {
			t.Fatalf("Advance(%q) error = %v, want validation error", p, err)
		}
		if got != StateAwaitingExecutablePath {
			t.Fatalf("Advance(%q) = %s, must stay in AwaitingExecutablePath", p, got)
		}
		if s.Attempts != 1 {
			t.Fatalf("Attempts = %d after rejected path, want 1", s.Attempts)
		}
	}

	// A host path is accepted too, not only drive-letter form.
	advance(t, m, s, ExecutablePath(exe), StateConfigured)
}

func TestNonExecutableFileRejected(t *testing.T) {
	t.Parallel()

	pfx, _ := testPrefix(t)
	plain := filepath.Join(pfx.Path, "drive_c", "Games", "readme.txt")
	if err := os.WriteFile(plain, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := testMachine(&stubRunner{}, &stubCleaner{}, &stubFinalizer{})
	s := NewSession("wings", "GE-Proton9-4", pfx, "/tmp/setup.exe")

	advance(t, m, s, Start(), StateAwaitingConfirmation)
	advance(t, m, s, Confirm(true), StateAwaitingExecutablePath)

	_, err := m.Advance(context.Background(), s, ExecutablePath(plain))
	if !errors.Is(err, issue.ErrValidation) {
		t.Errorf("error = %v, want validation error for non-executable file", err)
	}
}

func TestSpawnFailureSkipsRetry(t *testing.T) {
	t.Parallel()

	pfx, _ := testPrefix(t)
	m := testMachine(&stubRunner{errs: []error{spawnError()}}, &stubCleaner{}, &stubFinalizer{})
	s := NewSession("wings", "GE-Proton9-4", pfx, "/tmp/setup.exe")

	got, err := m.Advance(context.Background(), s, Start())
	if !errors.Is(err, issue.ErrSpawn) {
		t.Fatalf("error = %v, want spawn error surfaced", err)
	}
	if got != StateAwaitingCleanupDecision {
		t.Errorf("state = %s, want AwaitingCleanupDecision (spawn is not retry-eligible)", got)
	}
}

func TestUnexpectedInputRejected(t *testing.T) {
	t.Parallel()

	pfx, _ := testPrefix(t)
	m := testMachine(&stubRunner{}, &stubCleaner{}, &stubFinalizer{})
	s := NewSession("wings", "GE-Proton9-4", pfx, "/tmp/setup.exe")

	got, err := m.Advance(context.Background(), s, Confirm(true))
	if !errors.Is(err, issue.ErrValidation) {
		t.Fatalf("error = %v, want validation error", err)
	}
	if got != StateCreated {
		t.Errorf("state = %s, rejected input must not move the session", got)
	}
}

func TestTerminalStateRejectsInput(t *testing.T) {
	t.Parallel()

	pfx, _ := testPrefix(t)
	m := testMachine(&stubRunner{}, &stubCleaner{}, &stubFinalizer{})
	s := NewSession("wings", "GE-Proton9-4", pfx, "/tmp/setup.exe")
	s.State = StateCancelled

	_, err := m.Advance(context.Background(), s, Start())
	if !errors.Is(err, issue.ErrValidation) {
		t.Errorf("error = %v, want validation error on terminal session", err)
	}
}

func TestStateClassification(t *testing.T) {
	t.Parallel()

	for _, s := range []State{StateConfigured, StateCancelled} {
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
	for _, s := range []State{StateCreated, StateRunning, StateAwaitingConfirmation, StateAwaitingRetryDecision} {
		if s.Terminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
	if State("paused").IsValid() {
		t.Error("unknown state must not validate")
	}
}
