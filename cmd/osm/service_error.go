// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"

	"github.com/osmnfv/osm/internal/issue"
	"github.com/osmnfv/osm/pkg/osmpkg"
	"github.com/osmnfv/osm/pkg/sol005"
)

// ServiceError is an error that carries the issue catalog entry the CLI
// layer renders before the error itself. Always create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
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

// classifyError maps package tool and API client failures to catalog
// entries. Zero means no entry applies.
func classifyError(err error) issue.Id {
	if ae, ok := issue.AsActionable(err); ok {
		if entry := ae.Guidance(); entry != nil {
			return entry.Id()
		}
	}

	var notFound *osmpkg.NotFoundError
	if errors.As(err, &notFound) {
		switch notFound.Kind {
		case osmpkg.NotFoundPackage:
			return issue.PackageNotFoundId
		case osmpkg.NotFoundDescriptor:
			return issue.DescriptorNotFoundId
		case osmpkg.NotFoundCharm:
			return issue.CharmNotFoundId
		}
	}

	var urlErr *url.Error
	var netErr net.Error
	switch {
	case errors.Is(err, osmpkg.ErrValidation):
		return issue.DescriptorInvalidId
	case errors.Is(err, osmpkg.ErrBuildTool):
		return issue.BuildToolFailedId
	case errors.Is(err, osmpkg.ErrPackaging):
		return issue.PackagingFailedId
	case errors.Is(err, sol005.ErrTimeout):
		return issue.OperationTimeoutId
	// A refused connection during login surfaces as an AuthenticationError,
	// so transport failures are matched first.
	case errors.As(err, &urlErr), errors.As(err, &netErr):
		return issue.ServerUnreachableId
	case errors.Is(err, sol005.ErrAuthentication):
		return issue.AuthenticationFailedId
	case errors.Is(err, sol005.ErrNotFound):
		return issue.ResourceNotFoundId
	}
	return 0
}

// wrapServiceError attaches the matching catalog entry to err. Errors that
// match no entry are returned unchanged.
func wrapServiceError(err error) error {
	if err == nil {
		return nil
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	if id := classifyError(err); id != 0 {
		return newServiceError(err, id)
	}
	return err
}

// renderServiceError prints the issue help section of err, if it has one,
// followed by the suggestions of an ActionableError.
func renderServiceError(stderr io.Writer, err error, verbose bool, style string) {
	if ae, ok := issue.AsActionable(err); ok && (ae.HasSuggestions() || verbose) {
		fmt.Fprintln(stderr, ae.Format(verbose))
	}

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(style)
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
			return
		}
		fmt.Fprint(stderr, rendered)
	}
}
