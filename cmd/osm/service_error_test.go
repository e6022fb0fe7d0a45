// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"syscall"
	"testing"

	"github.com/osmnfv/osm/internal/issue"
	"github.com/osmnfv/osm/pkg/osmpkg"
	"github.com/osmnfv/osm/pkg/sol005"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	refused := &url.Error{Op: "Post", URL: "https://127.0.0.1:9999/osm/admin/v1/tokens", Err: syscall.ECONNREFUSED}

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"plain error", errors.New("boom"), 0},
		{"package folder", &osmpkg.NotFoundError{Kind: osmpkg.NotFoundPackage, Name: "x"}, issue.PackageNotFoundId},
		{"descriptor", &osmpkg.NotFoundError{Kind: osmpkg.NotFoundDescriptor, Name: "x"}, issue.DescriptorNotFoundId},
		{"charm", &osmpkg.NotFoundError{Kind: osmpkg.NotFoundCharm, Name: "x"}, issue.CharmNotFoundId},
		{"validation", &osmpkg.ValidationError{Path: "a.yaml", Message: "bad"}, issue.DescriptorInvalidId},
		{"build tool", &osmpkg.BuildToolError{Charm: "c", Command: "make", ExitCode: 1}, issue.BuildToolFailedId},
		{"packaging", &osmpkg.PackagingError{Phase: osmpkg.PhaseArchive, Err: errors.New("disk full")}, issue.PackagingFailedId},
		{"timeout", &sol005.TimeoutError{Seconds: 30}, issue.OperationTimeoutId},
		{"unreachable", fmt.Errorf("list: %w", refused), issue.ServerUnreachableId},
		{"refused during login", &sol005.AuthenticationError{User: "admin", Project: "admin", Err: refused}, issue.ServerUnreachableId},
		{"bad credentials", &sol005.AuthenticationError{User: "admin", Project: "admin", Err: errors.New("401")}, issue.AuthenticationFailedId},
		{"resource", &sol005.NotFoundError{Kind: "wim", Name: "w"}, issue.ResourceNotFoundId},
		{
			"actionable issue wins",
			issue.NewErrorContext().WithOperation("load").WithIssue(issue.ConfigLoadFailedId).Wrap(&sol005.TimeoutError{}).BuildError(),
			issue.ConfigLoadFailedId,
		},
		{
			"actionable without issue falls through",
			issue.WrapWithContext(&sol005.NotFoundError{Kind: "wim", Name: "w"}, "show WIM account", "w"),
			issue.ResourceNotFoundId,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("classifyError() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWrapServiceError(t *testing.T) {
	t.Parallel()

	if wrapServiceError(nil) != nil {
		t.Error("nil should stay nil")
	}

	plain := errors.New("boom")
	if got := wrapServiceError(plain); got != plain {
		t.Errorf("unclassified error should be returned unchanged, got %v", got)
	}

	wrapped := wrapServiceError(&sol005.TimeoutError{Seconds: 5})
	var svcErr *ServiceError
	if !errors.As(wrapped, &svcErr) || svcErr.IssueID != issue.OperationTimeoutId {
		t.Fatalf("wrapServiceError() = %#v", wrapped)
	}
	if !errors.Is(wrapped, sol005.ErrTimeout) {
		t.Error("ServiceError should unwrap to the cause")
	}
	if again := wrapServiceError(wrapped); again != wrapped {
		t.Error("an existing ServiceError should not be wrapped twice")
	}
}

func TestNewServiceError_PanicsOnNil(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("newServiceError(nil) should panic")
		}
	}()
	_ = newServiceError(nil, issue.PackagingFailedId)
}

func TestRenderServiceError(t *testing.T) {
	t.Parallel()

	t.Run("plain error prints nothing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		renderServiceError(&buf, errors.New("boom"), false, "notty")
		if buf.Len() != 0 {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("catalog entry and suggestions", func(t *testing.T) {
		t.Parallel()

		ae := issue.NewErrorContext().
			WithOperation("build package").
			WithResource("myvnf_vnf").
			WithSuggestion("Check the folder name").
			Wrap(&osmpkg.NotFoundError{Kind: osmpkg.NotFoundPackage, Name: "myvnf_vnf"}).
			BuildError()

		var buf bytes.Buffer
		renderServiceError(&buf, wrapServiceError(ae), false, "notty")
		out := buf.String()
		if !strings.Contains(out, "• Check the folder name") {
			t.Errorf("suggestion missing:\n%s", out)
		}
		if !strings.Contains(out, "Package folder not found") {
			t.Errorf("catalog entry missing:\n%s", out)
		}
	})

	t.Run("verbose adds the error chain", func(t *testing.T) {
		t.Parallel()

		ae := issue.WrapWithContext(errors.New("disk full"), "build package", "myvnf_vnf")

		var buf bytes.Buffer
		renderServiceError(&buf, ae, true, "notty")
		if !strings.Contains(buf.String(), "Error chain:") {
			t.Errorf("output:\n%s", buf.String())
		}
	})
}
