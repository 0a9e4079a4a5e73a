// SPDX-License-Identifier: MPL-2.0

package executor

import "strings"

type (
	// FilterRules drop known-noisy runtime diagnostics from captured
	// output while preserving anything that looks like a real error.
	// Deny patterns are substring matches against the full line; a line
	// matching a preserve pattern survives even when a deny pattern
	// also matches.
	FilterRules struct {
		Deny     []string
		Preserve []string
	}
)

// DefaultFilterRules returns the filter tuned for Wine runtime chatter:
// fixme spam, winediag hints, the setupapi copy warnings installers
// trigger, and staging patch banners.
func DefaultFilterRules() FilterRules {
	return FilterRules{
		Deny: []string{
			"fixme:",
			"winediag:",
			"err:setupapi:create_dest_file",
			"wine-staging",
			"experimental patches",
			":stub",
		},
		Preserve: []string{
			"error",
			"failed",
		},
	}
}

// Apply returns output with denied lines removed. Line boundaries and
// ordering of surviving lines are preserved.
func (r FilterRules) Apply(output string) string {
	if output == "" {
		return ""
	}

	lines := strings.Split(output, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if r.denied(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func (r FilterRules) denied(line string) bool {
	lower := strings.ToLower(line)
	for _, p := range r.Preserve {
		if strings.Contains(lower, p) {
			return false
		}
	}
	for _, p := range r.Deny {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
