// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cellar-cli/internal/config"
)

var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show a game's configuration",
	Long: `Show a game's configuration: prefix, runner, toggles, and how
it was installed.

Examples:
  cellar info wings`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadGameConfig(args[0])
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render(cfg.Game.Name))
	printField("Executable", cfg.Game.Executable)
	printField("Prefix", cfg.Game.Prefix)
	printField("Runner", cfg.Game.RunnerVersion)
	if cfg.Game.DXVKVersion != "" {
		printField("DXVK", cfg.Game.DXVKVersion)
	}
	if cfg.Launch.LaunchOptions != "" {
		printField("Launch options", cfg.Launch.LaunchOptions)
	}

	printField("Esync", onOff(cfg.Wine.Esync))
	printField("Fsync", onOff(cfg.Wine.Fsync))
	printField("DXVK enabled", onOff(cfg.Wine.DXVK))
	printField("Mangohud", onOff(cfg.Mangohud.Enabled))
	printField("Gamescope", gamescopeSummary(cfg.Gamescope))

	if cfg.Install != nil {
		printField("Installed", cfg.Install.InstalledAt.Format("2006-01-02 15:04"))
		printField("Installer attempts", fmt.Sprintf("%d", cfg.Install.Attempts))
	}
	return nil
}

func printField(label, value string) {
	fmt.Printf("  %s %s\n", SubtitleStyle.Render(label+":"), value)
}

func onOff(b bool) string {
	if b {
		return SuccessStyle.Render("on")
	}
	return SubtitleStyle.Render("off")
}

func gamescopeSummary(gs config.GamescopeOptions) string {
	if !gs.Enabled {
		return SubtitleStyle.Render("off")
	}
	return fmt.Sprintf("%dx%d -> %dx%d @%dHz (%s)",
		gs.Width, gs.Height, gs.OutputWidth, gs.OutputHeight, gs.RefreshRate, gs.Upscaling)
}
