// SPDX-License-Identifier: MPL-2.0

package osmpkg

import (
	"bytes"
	"errors"
	"os"
	"runtime"
	"strings"
	"testing"
	"time"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("build tool tests use a POSIX shell")
	}
}

func TestShellBuildTool_Success(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	var stdout bytes.Buffer
	tool := &ShellBuildTool{
		Command: `sh -c 'echo "$CHARM_NAME from $CHARM_SOURCE into $CHARM_BUILD_DIR"'`,
		Stdout:  &stdout,
	}
	err := tool.Build(t.Context(), BuildRequest{
		Name:      "simple",
		SourceDir: "/pkg/charms/layers/simple",
		LayersDir: "/pkg/charms/layers",
		BuildDir:  "/pkg/charms/builds",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := "simple from /pkg/charms/layers/simple into /pkg/charms/builds"
	if got := strings.TrimSpace(stdout.String()); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestShellBuildTool_ExportsRepositoryLayout(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	var stdout bytes.Buffer
	tool := &ShellBuildTool{
		Command: `sh -c 'echo "$CHARM_INTERFACES_DIR $JUJU_REPOSITORY"; printenv CHARM_INTERFACES_DIR JUJU_REPOSITORY'`,
		Stdout:  &stdout,
	}
	err := tool.Build(t.Context(), BuildRequest{
		Name:          "simple",
		SourceDir:     "/pkg/charms/layers/simple",
		InterfacesDir: "/pkg/charms/interfaces",
		RepositoryDir: "/pkg/charms",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := "/pkg/charms/interfaces /pkg/charms\n/pkg/charms/interfaces\n/pkg/charms"
	if got := strings.TrimSpace(stdout.String()); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestShellBuildTool_ExpandsArguments(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	tool := &ShellBuildTool{Command: `test "$CHARM_NAME" = expected`}
	if err := tool.Build(t.Context(), BuildRequest{Name: "expected"}); err != nil {
		t.Errorf("Build() error = %v", err)
	}
	if err := tool.Build(t.Context(), BuildRequest{Name: "other"}); err == nil {
		t.Error("Build() expected failure for mismatched charm name")
	}
}

func TestShellBuildTool_DoesNotTouchProcessEnvironment(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	tool := &ShellBuildTool{Command: "true"}
	if err := tool.Build(t.Context(), BuildRequest{Name: "simple", SourceDir: "/src"}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if v, ok := os.LookupEnv("CHARM_SOURCE"); ok {
		t.Errorf("CHARM_SOURCE leaked into process environment: %q", v)
	}
}

func TestShellBuildTool_NonZeroExit(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	tool := &ShellBuildTool{Command: "sh -c 'exit 3'"}
	err := tool.Build(t.Context(), BuildRequest{Name: "broken"})

	var buildErr *BuildToolError
	if !errors.As(err, &buildErr) {
		t.Fatalf("Build() error = %v, want *BuildToolError", err)
	}
	if buildErr.ExitCode != 3 || buildErr.Charm != "broken" {
		t.Errorf("BuildToolError = %+v", buildErr)
	}
	if !errors.Is(err, ErrBuildTool) {
		t.Error("errors.Is(err, ErrBuildTool) = false")
	}
}

func TestShellBuildTool_CommandNotFound(t *testing.T) {
	t.Parallel()

	tool := &ShellBuildTool{Command: "osm-definitely-missing-build-tool --flag"}
	err := tool.Build(t.Context(), BuildRequest{Name: "x"})
	if !errors.Is(err, ErrBuildTool) {
		t.Fatalf("Build() error = %v, want ErrBuildTool", err)
	}
}

func TestShellBuildTool_Timeout(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	tool := &ShellBuildTool{Command: "sleep 5", Timeout: 50 * time.Millisecond}
	start := time.Now()
	err := tool.Build(t.Context(), BuildRequest{Name: "slow"})
	if !errors.Is(err, ErrBuildTool) {
		t.Fatalf("Build() error = %v, want ErrBuildTool", err)
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Errorf("timeout not enforced, build took %v", elapsed)
	}
}

func TestShellBuildTool_EmptyCommandAfterExpansion(t *testing.T) {
	t.Parallel()

	tool := &ShellBuildTool{Command: "$OSM_UNSET_BUILD_VAR_FOR_TEST"}
	if err := tool.Build(t.Context(), BuildRequest{Name: "x"}); !errors.Is(err, ErrBuildTool) {
		t.Fatalf("Build() error = %v, want ErrBuildTool", err)
	}
}
