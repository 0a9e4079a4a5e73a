// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the four failure kinds. Callers classify with
// errors.Is rather than string matching.
var (
	// ErrConfiguration marks a bad or missing runner, an unwritable
	// prefix, or any other setup problem. Fatal, never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrSpawn marks a process that could not be started at all.
	// Fatal for the attempt and never eligible for installer retry.
	ErrSpawn = errors.New("spawn error")

	// ErrExit marks a process that ran and exited non-zero. Recoverable:
	// it feeds the retry decision instead of aborting, since many
	// installers exit non-zero after succeeding (pending reboot, user
	// cancel of an optional component).
	ErrExit = errors.New("exit error")

	// ErrValidation marks malformed user input such as a non-existent
	// executable path. Local; resolved by re-prompting.
	ErrValidation = errors.New("validation error")
)

type (
	// Kind identifies which family of the taxonomy an error belongs to.
	Kind string

	// ActionableError is an error with context for user-facing messages:
	// what operation failed, which path or entity was involved, and how
	// to fix it. Construct with the ErrorContext builder:
	//
	//	err := issue.NewErrorContext(issue.KindConfiguration).
	//		WithOperation("compose environment").
	//		WithResource("/home/u/.local/share/cellar/runners/GE-Proton9-4").
	//		WithSuggestion("Install the runner first with 'cellar runners install'").
	//		Wrap(osErr).
	//		BuildError()
	ActionableError struct {
		// Kind is the taxonomy family; it drives errors.Is matching.
		Kind Kind

		// Operation describes what was being attempted, as a verb phrase
		// ("launch game", "create prefix").
		Operation string

		// Resource identifies the file, path, or entity involved (optional).
		Resource string

		// Suggestions are hints on how to fix the issue (optional).
		Suggestions []string

		// Cause is the underlying OS or library error (optional).
		Cause error
	}

	// ErrorContext is a fluent builder for ActionableError.
	ErrorContext struct {
		kind        Kind
		operation   string
		resource    string
		suggestions []string
		cause       error
	}
)

// Kind constants for the four taxonomy families.
const (
	KindConfiguration Kind = "configuration"
	KindSpawn         Kind = "spawn"
	KindExit          Kind = "exit"
	KindValidation    Kind = "validation"
)

// sentinel resolves a Kind to its sentinel error.
func (k Kind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindSpawn:
		return ErrSpawn
	case KindExit:
		return ErrExit
	case KindValidation:
		return ErrValidation
	default:
		return nil
	}
}

// NewErrorContext creates a builder for the given taxonomy kind.
func NewErrorContext(kind Kind) *ErrorContext {
	return &ErrorContext{kind: kind}
}

// WrapWithOperation wraps an error with a kind and operation context.
// Shorthand for the common two-field case.
func WrapWithOperation(err error, kind Kind, operation string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Kind: kind, Operation: operation, Cause: err}
}

// --- ActionableError methods ---

// Error implements the error interface. The message always names the
// attempted operation and, when present, the offending resource and the
// underlying OS error text.
func (e *ActionableError) Error() string {
	var msg strings.Builder

	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)

	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}

	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}

	return msg.String()
}

// Unwrap exposes both the taxonomy sentinel and the cause so that
// errors.Is(err, issue.ErrSpawn) and errors.Is(err, os.ErrNotExist)
// both work.
func (e *ActionableError) Unwrap() []error {
	var errs []error
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Format returns a formatted message with optional verbosity.
//
// When verbose is false:
//
//	failed to <operation>: <resource>: <cause>
//	  • <suggestion 1>
//
// When verbose is true, the full unwrapped error chain is appended.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder

	msg.WriteString(e.Error())

	for _, suggestion := range e.Suggestions {
		msg.WriteString("\n  • ")
		msg.WriteString(suggestion)
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		err := e.Cause
		depth := 1
		for err != nil {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			err = errors.Unwrap(err)
			depth++
		}
	}

	return msg.String()
}

// HasSuggestions returns true if the error carries any fix suggestions.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// --- ErrorContext methods ---

// WithOperation sets the operation being performed, as a verb phrase.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the file, path, or entity involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion adds a fix suggestion. May be called multiple times.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// Wrap records the underlying error as the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build creates the ActionableError. Returns nil if no operation is set;
// an error without an operation is a programming mistake, not a message
// we want users to see.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}

	return &ActionableError{
		Kind:        c.kind,
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
	}
}

// BuildError creates the ActionableError typed as error, for direct use
// in return statements.
func (c *ErrorContext) BuildError() error {
	ae := c.Build()
	if ae == nil {
		return nil
	}
	return ae
}
