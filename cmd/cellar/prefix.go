// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"cellar-cli/internal/prefix"
	"cellar-cli/internal/runner"
	"cellar-cli/internal/tui"
)

var (
	prefixRunner string

	prefixCmd = &cobra.Command{
		Use:   "prefix",
		Short: "Manage prefixes directly",
		Long: `Commands for working with prefixes outside the add/remove
game flow: create an empty prefix, list existing ones, remove one.`,
	}

	prefixCreateCmd = &cobra.Command{
		Use:   "create <name>",
		Short: "Create and initialize an empty prefix",
		Long: `Create an empty prefix and run the runner's first-time
initialization inside it.

Examples:
  cellar prefix create sandbox
  cellar prefix create sandbox --runner GE-Proton9-4`,
		Args: cobra.ExactArgs(1),
		RunE: runPrefixCreate,
	}

	prefixListCmd = &cobra.Command{
		Use:   "list",
		Short: "List prefixes",
		Args:  cobra.NoArgs,
		RunE:  runPrefixList,
	}

	prefixRemoveCmd = &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a prefix",
		Args:  cobra.ExactArgs(1),
		RunE:  runPrefixRemove,
	}
)

func init() {
	prefixCreateCmd.Flags().StringVar(&prefixRunner, "runner", "", "runner identifier (default from config)")

	prefixCmd.AddCommand(prefixCreateCmd)
	prefixCmd.AddCommand(prefixListCmd)
	prefixCmd.AddCommand(prefixRemoveCmd)
}

func runPrefixCreate(cmd *cobra.Command, args []string) error {
	runnerID := prefixRunner
	if runnerID == "" {
		runnerID = settings.DefaultRunner
	}
	rt, err := newResolver().Resolve(runnerID)
	if err != nil {
		return err
	}

	h, err := bootstrapPrefix(cmd.Context(), args[0], rt)
	if err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("✓ ") + "Prefix created at " + h.Path)
	return nil
}

func runPrefixList(cmd *cobra.Command, args []string) error {
	mgr := prefix.NewManager(dirs.Prefixes)
	names, err := mgr.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println(SubtitleStyle.Render("No prefixes."))
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Runner", "Path")

	for _, name := range names {
		path := mgr.PathFor(name)
		markedRunner, ok := runner.DetectPrefixRunner(path)
		if !ok {
			markedRunner = "?"
		}
		table.Append(name, markedRunner, path)
	}
	return table.Render()
}

func runPrefixRemove(cmd *cobra.Command, args []string) error {
	mgr := prefix.NewManager(dirs.Prefixes)
	h, err := mgr.Open(args[0])
	if err != nil {
		return err
	}

	ok, err := tui.Confirm(tui.ConfirmOptions{
		Title:       fmt.Sprintf("Remove prefix '%s'?", args[0]),
		Description: "Everything installed inside it will be deleted.",
		Affirmative: "Remove",
		Negative:    "Keep",
	})
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := mgr.Remove(h); err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("✓ ") + "Prefix removed.")
	return nil
}
