// SPDX-License-Identifier: MPL-2.0

package osmpkg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"mvdan.cc/sh/v3/shell"
)

// DefaultBuildCommand builds a reactive charm from its layer sources.
const DefaultBuildCommand = `charm build "$CHARM_SOURCE"`

type (
	// BuildRequest describes one charm build.
	BuildRequest struct {
		// Name is the charm name as referenced in the descriptor.
		Name string
		// SourceDir is charms/layers/<name>.
		SourceDir string
		// LayersDir is charms/layers.
		LayersDir string
		// InterfacesDir is charms/interfaces, searched for interface layers.
		InterfacesDir string
		// RepositoryDir is the charms directory itself.
		RepositoryDir string
		// BuildDir is charms/builds, where the build output is expected.
		BuildDir string
	}

	// BuildTool compiles a charm from source.
	BuildTool interface {
		Build(ctx context.Context, req BuildRequest) error
	}

	// ShellBuildTool runs an external command for every build.
	//
	// Command is expanded with shell word rules. CHARM_NAME, CHARM_SOURCE,
	// CHARM_LAYERS_DIR, CHARM_INTERFACES_DIR, JUJU_REPOSITORY and
	// CHARM_BUILD_DIR resolve to the request values. The same variables are
	// added to the child's environment only, never to the environment of
	// this process.
	ShellBuildTool struct {
		Command string
		// Timeout bounds a single build. Zero means no limit.
		Timeout time.Duration
		Stdout  io.Writer
		Stderr  io.Writer
	}
)

// Build runs the command for req. A non-zero exit, a timeout or a command
// that cannot be started is reported as a *BuildToolError.
func (b *ShellBuildTool) Build(ctx context.Context, req BuildRequest) error {
	vars := map[string]string{
		"CHARM_NAME":           req.Name,
		"CHARM_SOURCE":         req.SourceDir,
		"CHARM_LAYERS_DIR":     req.LayersDir,
		"CHARM_INTERFACES_DIR": req.InterfacesDir,
		"JUJU_REPOSITORY":      req.RepositoryDir,
		"CHARM_BUILD_DIR":      req.BuildDir,
	}

	command := b.Command
	if command == "" {
		command = DefaultBuildCommand
	}
	args, err := shell.Fields(command, func(name string) string {
		if v, ok := vars[name]; ok {
			return v
		}
		return os.Getenv(name)
	})
	if err != nil {
		return &BuildToolError{Charm: req.Name, Command: command, Err: fmt.Errorf("expanding command: %w", err)}
	}
	if len(args) == 0 {
		return &BuildToolError{Charm: req.Name, Command: command, Err: errors.New("empty build command")}
	}

	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = os.Environ()
	for k, v := range vars {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Stdout = b.Stdout
	cmd.Stderr = b.Stderr

	if err := cmd.Run(); err != nil {
		buildErr := &BuildToolError{Charm: req.Name, Command: command, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			buildErr.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			buildErr.Err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return buildErr
	}
	return nil
}
