// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured games",
	Long: `List every configured game with its runner and executable.

Examples:
  cellar list`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	store := newStore()
	names, err := store.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println(SubtitleStyle.Render("No games configured. Add one with: ") + CmdStyle.Render("cellar add <name> --installer <path>"))
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Runner", "Executable")

	for _, name := range names {
		cfg, err := store.Load(name)
		if err != nil {
			logger.Warn("skipping unreadable game config", "game", name, "error", err)
			continue
		}
		table.Append(cfg.Game.Name, cfg.Game.RunnerVersion, cfg.Game.Executable)
	}
	return table.Render()
}
