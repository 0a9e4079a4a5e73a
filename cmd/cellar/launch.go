// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cellar-cli/internal/executor"
	"cellar-cli/internal/issue"
	"cellar-cli/internal/launch"
	"cellar-cli/internal/prefix"
)

var launchCmd = &cobra.Command{
	Use:   "launch <name>",
	Short: "Launch a configured game",
	Long: `Launch a configured game inside its prefix.

The command is built from the game's configuration: launch-option
template, game arguments, and the mangohud/gamescope wrappers. Output
is captured and filtered; the game's exit code becomes cellar's exit
code.

Examples:
  cellar launch wings
  cellar launch wings --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: runLaunch,
}

func runLaunch(cmd *cobra.Command, args []string) error {
	cfg, err := loadGameConfig(args[0])
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
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
	if err := checkExecutable(pfx, cfg.Game.Executable); err != nil {
		return err
	}

	env, err := launch.NewComposer().Compose(launch.OpRun, rt, pfx, launchOptionsFrom(cfg))
	if err != nil {
		return err
	}
	plan, err := launch.BuildCommand(launch.Spec{
		Executable: cfg.Game.Executable,
		Args:       cfg.Launch.GameArgs,
		Template:   cfg.Launch.LaunchOptions,
		Mangohud:   cfg.Mangohud,
		Gamescope:  cfg.Gamescope,
	}, env)
	if err != nil {
		return err
	}

	logger.Info("launching game", "game", cfg.Game.Name, "runner", rt.ID)
	logger.Debug("final command", "args", plan.Args)

	res, err := newExecutor().Execute(cmd.Context(), executor.Request{
		Program: plan.Program(),
		Args:    plan.Argv(),
		Env:     plan.Env,
		Mode:    executor.ModeManaged,
	})
	if res.FilteredOutput != "" {
		fmt.Print(res.FilteredOutput)
	}
	if errors.Is(err, issue.ErrExit) {
		return &ExitError{Code: res.ExitCode, Err: err}
	}
	return err
}
