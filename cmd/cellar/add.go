// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cellar-cli/internal/config"
	"cellar-cli/internal/executor"
	"cellar-cli/internal/install"
	"cellar-cli/internal/issue"
	"cellar-cli/internal/launch"
	"cellar-cli/internal/prefix"
	"cellar-cli/internal/runner"
	"cellar-cli/internal/tui"
)

var (
	addInstaller string
	addExe       string
	addRunner    string

	addCmd = &cobra.Command{
		Use:   "add <name>",
		Short: "Install a game into a fresh prefix",
		Long: `Install a game into a fresh prefix.

With --installer, creates an isolated prefix, runs the installer
inside it, and walks through an interactive session: after each
installer run you confirm whether it succeeded, retry it if not, and
finally point cellar at the installed executable.

With --exe, registers an already-installed game directly: the
executable must exist, and if it does not live inside an existing
cellar prefix a fresh prefix is created for it.

Exits with code 0 once the game is configured, non-zero if the
session is cancelled.

Examples:
  cellar add wings --installer ~/Downloads/setup.exe
  cellar add wings --installer setup.exe --runner GE-Proton9-4
  cellar add wings --exe ~/games/prefixes/wings/drive_c/Games/wings.exe`,
		Args: cobra.ExactArgs(1),
		RunE: runAdd,
	}
)

func init() {
	addCmd.Flags().StringVar(&addInstaller, "installer", "", "path to the installer executable")
	addCmd.Flags().StringVar(&addExe, "exe", "", "path to an already-installed executable")
	addCmd.Flags().StringVar(&addRunner, "runner", "", "runner identifier (default from config)")
	addCmd.MarkFlagsOneRequired("installer", "exe")
	addCmd.MarkFlagsMutuallyExclusive("installer", "exe")
}

// installerLauncher runs a session's installer in visible mode so its
// GUI can take over the terminal's streams.
type installerLauncher struct {
	rt   runner.Descriptor
	exec *executor.Executor
}

func (l *installerLauncher) RunInstaller(ctx context.Context, s *install.Session) error {
	env, err := launch.NewComposer().Compose(launch.OpInstall, l.rt, s.Prefix, launch.Options{})
	if err != nil {
		return err
	}
	plan, err := launch.BuildCommand(launch.Spec{Executable: s.InstallerPath}, env)
	if err != nil {
		return err
	}
	_, err = l.exec.Execute(ctx, executor.Request{
		Program: plan.Program(),
		Args:    plan.Argv(),
		Env:     plan.Env,
		Mode:    executor.ModeVisible,
	})
	return err
}

// prefixCleaner removes a session's prefix on cleanup.
type prefixCleaner struct {
	mgr *prefix.Manager
}

func (c *prefixCleaner) RemovePrefix(h prefix.Handle) error {
	return c.mgr.Remove(h)
}

// gameFinalizer persists the completed game configuration.
type gameFinalizer struct {
	store *config.Store
}

func (f *gameFinalizer) FinalizeInstallation(s *install.Session) error {
	cfg := config.NewGameConfig(s.GameName)
	cfg.Game.Executable = s.Executable
	cfg.Game.Prefix = s.Prefix.Path
	cfg.Game.RunnerVersion = s.RunnerID
	cfg.Install = &config.InstallationInfo{
		InstallerPath: s.InstallerPath,
		InstalledAt:   time.Now(),
		Attempts:      s.Attempts,
	}
	return f.store.Save(cfg)
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	ctx := cmd.Context()

	if _, err := newStore().Load(name); err == nil {
		return issue.NewErrorContext(issue.KindConfiguration).
			WithOperation("add game").
			WithResource(name).
			WithSuggestion("Remove the existing game first with 'cellar remove'").
			Wrap(fmt.Errorf("game already configured")).
			BuildError()
	}

	runnerID := addRunner
	if runnerID == "" {
		runnerID = settings.DefaultRunner
	}
	rt, err := newResolver().Resolve(runnerID)
	if err != nil {
		return newServiceError(err, issue.RunnerNotFoundId)
	}

	if addExe != "" {
		return runAddExisting(ctx, name, rt)
	}

	if _, err := os.Stat(addInstaller); err != nil {
		return issue.NewErrorContext(issue.KindConfiguration).
			WithOperation("read installer").
			WithResource(addInstaller).
			WithSuggestion("Check the path passed to --installer").
			Wrap(err).
			BuildError()
	}

	pfx, err := bootstrapPrefix(ctx, name, rt)
	if err != nil {
		return err
	}

	machine := install.NewMachine(
		&installerLauncher{rt: rt, exec: newExecutor()},
		&prefixCleaner{mgr: prefix.NewManager(dirs.Prefixes)},
		&gameFinalizer{store: newStore()},
		logger,
	)
	session := install.NewSession(name, rt.ID, pfx, addInstaller)

	state, err := driveSession(ctx, machine, session)
	if err != nil {
		return err
	}
	if state != install.StateConfigured {
		fmt.Println(WarningStyle.Render("Installation cancelled."))
		return &ExitError{Code: 1, Err: fmt.Errorf("installation of '%s' cancelled", name)}
	}

	fmt.Println(SuccessStyle.Render("✓ ") + fmt.Sprintf("Game '%s' configured. Launch it with: ", name) + CmdStyle.Render("cellar launch "+name))
	return nil
}

// runAddExisting registers a game whose files are already on disk,
// skipping the installer session.
func runAddExisting(ctx context.Context, name string, rt runner.Descriptor) error {
	exe, err := filepath.Abs(addExe)
	if err != nil {
		return err
	}
	st, err := os.Stat(exe)
	if err != nil {
		return newServiceError(issue.NewErrorContext(issue.KindConfiguration).
			WithOperation("read game executable").
			WithResource(addExe).
			WithSuggestion("Check the path passed to --exe").
			Wrap(err).
			BuildError(), issue.ExecutableNotFoundId)
	}
	if st.IsDir() {
		return issue.NewErrorContext(issue.KindValidation).
			WithOperation("read game executable").
			WithResource(addExe).
			Wrap(fmt.Errorf("path is a directory")).
			BuildError()
	}

	pfx, ok := containingPrefix(exe)
	if !ok {
		pfx, err = bootstrapPrefix(ctx, name, rt)
		if err != nil {
			return err
		}
	}

	cfg := config.NewGameConfig(name)
	cfg.Game.Executable = exe
	cfg.Game.Prefix = pfx.Path
	cfg.Game.RunnerVersion = rt.ID
	if err := newStore().Save(cfg); err != nil {
		return err
	}

	fmt.Println(SuccessStyle.Render("✓ ") + fmt.Sprintf("Game '%s' configured. Launch it with: ", name) + CmdStyle.Render("cellar launch "+name))
	return nil
}

// containingPrefix resolves the cellar prefix a path lives under, if any.
func containingPrefix(path string) (prefix.Handle, bool) {
	rel, err := filepath.Rel(dirs.Prefixes, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return prefix.Handle{}, false
	}
	first := strings.SplitN(rel, string(os.PathSeparator), 2)[0]
	return prefix.Handle{Path: filepath.Join(dirs.Prefixes, first)}, true
}

// driveSession feeds user decisions into the machine until the session
// reaches a terminal state. Rejected executable paths re-prompt;
// everything else fatal bubbles up.
func driveSession(ctx context.Context, m *install.Machine, s *install.Session) (install.State, error) {
	state, err := m.Advance(ctx, s, install.Start())
	if err != nil && !errors.Is(err, issue.ErrSpawn) {
		return state, err
	}
	if err != nil {
		fmt.Println(ErrorStyle.Render("Installer could not be started: ") + err.Error())
		renderServiceError(os.Stderr, newServiceError(err, issue.InstallerSpawnFailedId))
	}

	for !state.Terminal() {
		var in install.Input
		switch state {
		case install.StateAwaitingConfirmation:
			ok, perr := tui.Confirm(tui.ConfirmOptions{
				Title:       "Did the installation complete successfully?",
				Description: "Answer No to retry or clean up.",
			})
			if perr != nil {
				return state, perr
			}
			in = install.Confirm(ok)

		case install.StateAwaitingRetryDecision:
			ok, perr := tui.Confirm(tui.ConfirmOptions{
				Title: "Run the installer again?",
			})
			if perr != nil {
				return state, perr
			}
			in = install.Retry(ok)

		case install.StateAwaitingCleanupDecision:
			ok, perr := tui.Confirm(tui.ConfirmOptions{
				Title:       "Remove the prefix?",
				Description: "Answer No to keep the partial installation on disk.",
			})
			if perr != nil {
				return state, perr
			}
			in = install.Cleanup(ok)

		case install.StateAwaitingExecutablePath:
			path, perr := tui.Input(tui.InputOptions{
				Title:       "Path to the installed executable",
				Placeholder: `C:\Games\game\game.exe`,
			})
			if perr != nil {
				return state, perr
			}
			in = install.ExecutablePath(path)

		default:
			return state, fmt.Errorf("unexpected installation state '%s'", state)
		}

		next, err := m.Advance(ctx, s, in)
		switch {
		case err == nil:
		case errors.Is(err, issue.ErrValidation) && next == install.StateAwaitingExecutablePath:
			fmt.Println(WarningStyle.Render("Invalid path: ") + err.Error())
		case errors.Is(err, issue.ErrSpawn):
			fmt.Println(ErrorStyle.Render("Installer could not be started: ") + err.Error())
			renderServiceError(os.Stderr, newServiceError(err, issue.InstallerSpawnFailedId))
		default:
			return next, err
		}
		state = next
	}
	return state, nil
}
