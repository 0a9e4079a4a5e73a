// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for cellar.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cellar-cli/internal/config"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool

	// settings and dirs are resolved once before any command runs.
	settings *config.Settings
	dirs     config.Directories
	logger   *log.Logger

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "cellar",
		Short: "A Wine prefix manager for Windows games",
		Long: TitleStyle.Render("cellar") + SubtitleStyle.Render(" - A Wine prefix manager for Windows games") + `

cellar keeps each Windows game in its own isolated prefix, launches it
through a Proton-compatible runner, and layers optional performance
wrappers (mangohud, gamescope) around the command it builds.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Install a runner build under the runners directory
  2. Add a game with: cellar add <name> --installer <setup.exe>
  3. Launch it with:  cellar launch <name>

` + SubtitleStyle.Render("Examples:") + `
  cellar add wings --installer ~/Downloads/setup.exe
  cellar launch wings     Launch the configured game
  cellar list             List configured games
  cellar util wings winecfg
  cellar runners list     List installed runners`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(utilCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(prefixCmd)
	rootCmd.AddCommand(runnersCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			renderServiceError(os.Stderr, svcErr)
		}
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig loads settings and resolves the directory layout.
func initRootConfig() {
	var err error
	settings, err = config.LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+err.Error())
		settings = config.DefaultSettings()
	}

	dirs, err = config.ResolveDirectories(settings)
	if err == nil {
		err = dirs.EnsureAll()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
	if verbose || settings.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
}
