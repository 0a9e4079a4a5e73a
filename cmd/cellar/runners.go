// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	runnersCmd = &cobra.Command{
		Use:   "runners",
		Short: "Manage runner installations",
		Long:  `Commands for inspecting the runner builds cellar can launch games with.`,
	}

	runnersListCmd = &cobra.Command{
		Use:   "list",
		Short: "List installed runners",
		Long: `List every runner build found in the runners directory and
known Steam compatibility-tool locations.

Examples:
  cellar runners list`,
		Args: cobra.NoArgs,
		RunE: runRunnersList,
	}
)

func init() {
	runnersCmd.AddCommand(runnersListCmd)
}

func runRunnersList(cmd *cobra.Command, args []string) error {
	descriptors, err := newResolver().Discover()
	if err != nil {
		return err
	}
	if len(descriptors) == 0 {
		fmt.Println(SubtitleStyle.Render("No runners found. Install one under: ") + CmdStyle.Render(dirs.Runners))
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Kind", "Version", "Default", "Path")

	for _, d := range descriptors {
		def := ""
		if d.ID == settings.DefaultRunner {
			def = "*"
		}
		table.Append(d.ID, string(d.Kind), d.Version, def, d.Root)
	}
	return table.Render()
}
