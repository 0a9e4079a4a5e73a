// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [name]",
	Short: "Show processes running inside cellar prefixes",
	Long: `Show processes currently running inside any cellar prefix,
matched by the prefix path in their environment. With a game name,
only that game's prefix is checked.

Examples:
  cellar status
  cellar status wings`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	var only string
	if len(args) == 1 {
		cfg, err := loadGameConfig(args[0])
		if err != nil {
			return err
		}
		only = cfg.Game.Prefix
	}

	procs, err := process.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("PID", "Prefix", "Process")

	found := 0
	for _, p := range procs {
		// Environ fails for processes we do not own; those cannot be
		// ours anyway.
		environ, err := p.Environ()
		if err != nil {
			continue
		}
		pfxPath := prefixFromEnviron(environ)
		if pfxPath == "" || !strings.HasPrefix(pfxPath, dirs.Prefixes) {
			continue
		}
		if only != "" && pfxPath != only {
			continue
		}

		name, err := p.Name()
		if err != nil {
			name = "?"
		}
		table.Append(fmt.Sprintf("%d", p.Pid), strings.TrimPrefix(pfxPath, dirs.Prefixes+string(os.PathSeparator)), name)
		found++
	}

	if found == 0 {
		fmt.Println(SubtitleStyle.Render("No processes running inside cellar prefixes."))
		return nil
	}
	return table.Render()
}

// prefixFromEnviron extracts the WINEPREFIX value, if any.
func prefixFromEnviron(environ []string) string {
	for _, kv := range environ {
		if v, ok := strings.CutPrefix(kv, "WINEPREFIX="); ok {
			return v
		}
	}
	return ""
}
