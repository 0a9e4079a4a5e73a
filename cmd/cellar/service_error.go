// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"cellar-cli/internal/issue"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When Execute receives a ServiceError, it renders the issue
// catalogue entry (if present) after formatting the underlying error.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalogue ID for rendering help text.
	IssueID issue.Id
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
// All construction sites must use this instead of struct literals.
func newServiceError(err error, issueID issue.Id) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{Err: err, IssueID: issueID}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError prints the issue catalogue help section for a
// ServiceError, if it carries one.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil || svcErr.IssueID == 0 {
		return
	}

	catalogEntry := issue.Get(svcErr.IssueID)
	if catalogEntry == nil {
		return
	}

	rendered, renderErr := catalogEntry.Render("dark")
	if renderErr != nil {
		if logger != nil {
			logger.Warn("failed to render issue catalogue entry", "issueID", svcErr.IssueID, "error", renderErr)
		}
		return
	}
	fmt.Fprint(stderr, rendered)
}
