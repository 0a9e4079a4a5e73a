// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"cellar-cli/internal/executor"
	"cellar-cli/internal/issue"
	"cellar-cli/internal/launch"
	"cellar-cli/internal/prefix"
)

var utilCmd = &cobra.Command{
	Use:   "util <name> <tool> [args...]",
	Short: "Run a utility inside a game's prefix",
	Long: `Run an ad-hoc utility (winecfg, regedit, winetricks targets)
inside a game's prefix. The utility runs in visible mode with the
terminal's streams so interactive tools work.

Examples:
  cellar util wings winecfg
  cellar util wings regedit
  cellar util wings reg query "HKCU\Software"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runUtil,
}

func runUtil(cmd *cobra.Command, args []string) error {
	cfg, err := loadGameConfig(args[0])
	if err != nil {
		return err
	}

	rt, err := resolveGameRunner(cfg)
	if err != nil {
		return err
	}
	pfx := prefix.Handle{Path: cfg.Game.Prefix}
	if err := checkPrefix(pfx); err != nil {
		return err
	}

	env, err := launch.NewComposer().Compose(launch.OpUtility, rt, pfx, launchOptionsFrom(cfg))
	if err != nil {
		return err
	}
	plan, err := launch.BuildCommand(launch.Spec{
		Executable: args[1],
		Args:       args[2:],
	}, env)
	if err != nil {
		return err
	}

	logger.Info("running utility", "game", cfg.Game.Name, "tool", args[1])
	res, err := newExecutor().Execute(cmd.Context(), executor.Request{
		Program: plan.Program(),
		Args:    plan.Argv(),
		Env:     plan.Env,
		Mode:    executor.ModeVisible,
	})
	if errors.Is(err, issue.ErrExit) {
		return &ExitError{Code: res.ExitCode, Err: err}
	}
	return err
}
