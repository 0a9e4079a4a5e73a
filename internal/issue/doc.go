// SPDX-License-Identifier: MPL-2.0

// Package issue provides the error taxonomy for cellar and user-facing
// remediation texts.
//
// Fatal failures are classified into four kinds: configuration problems
// (bad runner, unwritable prefix), spawn failures (the process never
// started), exit failures (the process ran and returned non-zero), and
// validation failures (malformed user input, resolved by re-prompting).
// The classification matters because the installation flow treats them
// differently: only exit failures are eligible for an installer retry.
//
// ActionableError carries operation/resource context and fix
// suggestions; the Issue catalogue holds longer markdown remediation
// texts rendered with glamour.
package issue
