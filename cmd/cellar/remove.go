// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cellar-cli/internal/prefix"
	"cellar-cli/internal/tui"
)

var (
	removeYes        bool
	removeKeepPrefix bool

	removeCmd = &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a game and its prefix",
		Long: `Remove a game's configuration and, unless --keep-prefix is
given, its prefix directory with everything installed inside.

Examples:
  cellar remove wings
  cellar remove wings --keep-prefix
  cellar remove wings --yes`,
		Args: cobra.ExactArgs(1),
		RunE: runRemove,
	}
)

func init() {
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "skip the confirmation prompt")
	removeCmd.Flags().BoolVar(&removeKeepPrefix, "keep-prefix", false, "keep the prefix directory on disk")
}

func runRemove(cmd *cobra.Command, args []string) error {
	store := newStore()
	cfg, err := loadGameConfig(args[0])
	if err != nil {
		return err
	}

	if !removeYes {
		what := "configuration and prefix"
		if removeKeepPrefix {
			what = "configuration"
		}
		ok, err := tui.Confirm(tui.ConfirmOptions{
			Title:       fmt.Sprintf("Remove %s of '%s'?", what, cfg.Game.Name),
			Affirmative: "Remove",
			Negative:    "Keep",
		})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	if !removeKeepPrefix && cfg.Game.Prefix != "" {
		h := prefix.Handle{Path: cfg.Game.Prefix}
		if h.Exists() {
			if err := prefix.NewManager(dirs.Prefixes).Remove(h); err != nil {
				return err
			}
			logger.Info("prefix removed", "path", h.Path)
		}
	}

	if err := store.Remove(cfg.Game.Name); err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("✓ ") + fmt.Sprintf("Game '%s' removed.", cfg.Game.Name))
	return nil
}
