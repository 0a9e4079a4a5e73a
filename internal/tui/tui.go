// SPDX-License-Identifier: MPL-2.0

// Package tui wraps the interactive prompts the installation flow
// needs: yes/no confirmations and a validated text input. Components
// take an options struct and return the user's answer; rendering is
// delegated to huh.
package tui

import (
	"github.com/charmbracelet/huh"

	"cellar-cli/internal/issue"
)

type (
	// ConfirmOptions configures a yes/no prompt.
	ConfirmOptions struct {
		// Title is the question to display.
		Title string
		// Description provides additional context below the title.
		Description string
		// Affirmative is the text for the yes option (default: "Yes").
		Affirmative string
		// Negative is the text for the no option (default: "No").
		Negative string
		// Default preselects an answer.
		Default bool
	}

	// InputOptions configures a single-line text prompt.
	InputOptions struct {
		// Title is the prompt displayed above the input.
		Title string
		// Description provides additional context below the title.
		Description string
		// Placeholder is shown while the input is empty.
		Placeholder string
		// Validate rejects an answer before the prompt closes; nil
		// accepts anything.
		Validate func(string) error
	}
)

// normalize fills in the button defaults.
func (o ConfirmOptions) normalize() ConfirmOptions {
	if o.Affirmative == "" {
		o.Affirmative = "Yes"
	}
	if o.Negative == "" {
		o.Negative = "No"
	}
	return o
}

// Confirm renders a yes/no prompt and blocks until answered.
func Confirm(opts ConfirmOptions) (bool, error) {
	opts = opts.normalize()

	result := opts.Default
	field := huh.NewConfirm().
		Title(opts.Title).
		Description(opts.Description).
		Affirmative(opts.Affirmative).
		Negative(opts.Negative).
		Value(&result)

	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return false, issue.NewErrorContext(issue.KindValidation).
			WithOperation("read confirmation").
			Wrap(err).
			BuildError()
	}
	return result, nil
}

// Input renders a single-line text prompt and blocks until answered.
func Input(opts InputOptions) (string, error) {
	var result string
	field := huh.NewInput().
		Title(opts.Title).
		Description(opts.Description).
		Placeholder(opts.Placeholder).
		Value(&result)
	if opts.Validate != nil {
		field = field.Validate(opts.Validate)
	}

	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return "", issue.NewErrorContext(issue.KindValidation).
			WithOperation("read input").
			Wrap(err).
			BuildError()
	}
	return result, nil
}
