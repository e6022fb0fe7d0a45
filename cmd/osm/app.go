// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/osmnfv/osm/internal/config"
	"github.com/osmnfv/osm/internal/logging"
	"github.com/osmnfv/osm/pkg/osmpkg"
	"github.com/osmnfv/osm/pkg/sol005"
)

var errConfigNotLoaded = errors.New("configuration not loaded")

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App and reaches
	// the package tool and the API client through its factories.
	App struct {
		Config    ConfigProvider
		NewTool   ToolFactory
		NewClient ClientFactory
		stdout    io.Writer
		stderr    io.Writer

		cfg    *config.Config
		logger *slog.Logger
		// installLogger makes the loaded logger the process-wide slog default.
		installLogger bool
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		NewTool   ToolFactory
		NewClient ClientFactory
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// ToolFactory builds the package tool for a loaded configuration.
	ToolFactory func(cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) *osmpkg.Tool

	// ClientFactory builds the API client for a loaded configuration.
	ClientFactory func(cfg *config.Config, logger *slog.Logger) *sol005.Client
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:    deps.Config,
		NewTool:   deps.NewTool,
		NewClient: deps.NewClient,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.NewTool == nil {
		app.NewTool = defaultToolFactory
	}
	if app.NewClient == nil {
		app.NewClient = defaultClientFactory
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadConfig loads the configuration once per invocation and installs the
// process logger according to it.
func (a *App) loadConfig(ctx context.Context, opts config.LoadOptions) error {
	cfg, err := a.Config.Load(ctx, opts)
	if err != nil {
		return err
	}
	a.cfg = cfg
	logOpts := logging.Options{Verbose: cfg.UI.Verbose}
	if a.installLogger {
		a.logger = logging.Install(a.stderr, logOpts)
	} else {
		a.logger = logging.New(a.stderr, logOpts)
	}
	return nil
}

func (a *App) config() (*config.Config, error) {
	if a.cfg == nil {
		return nil, errConfigNotLoaded
	}
	return a.cfg, nil
}

func (a *App) tool() (*osmpkg.Tool, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	return a.NewTool(cfg, a.logger, a.stdout, a.stderr), nil
}

func (a *App) client() (*sol005.Client, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	return a.NewClient(cfg, a.logger), nil
}

// glamourStyle picks the issue rendering style for the configured scheme.
func (a *App) glamourStyle() string {
	if a.cfg != nil && a.cfg.UI.ColorScheme == config.ColorSchemeLight {
		return "light"
	}
	if a.cfg != nil && a.cfg.UI.ColorScheme == config.ColorSchemeAuto {
		return "auto"
	}
	return "dark"
}

func (a *App) verbose() bool {
	return a.cfg != nil && a.cfg.UI.Verbose
}

func defaultToolFactory(cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) *osmpkg.Tool {
	return osmpkg.New(
		osmpkg.WithBuildTool(&osmpkg.ShellBuildTool{
			Command: cfg.Package.BuildCommand,
			Timeout: cfg.Package.BuildTimeout,
			Stdout:  stdout,
			Stderr:  stderr,
		}),
		osmpkg.WithIgnorePatterns(cfg.Package.IgnorePatterns...),
		osmpkg.WithDigestAlgorithm(osmpkg.DigestAlgorithm(cfg.Package.DigestAlgorithm)),
		osmpkg.WithClock(time.Now),
		osmpkg.WithLogger(logger),
	)
}

func defaultClientFactory(cfg *config.Config, logger *slog.Logger) *sol005.Client {
	return sol005.NewClient(cfg.Hostname,
		sol005.WithSOPort(cfg.SOPort),
		sol005.WithCredentials(cfg.User, cfg.Password),
		sol005.WithProject(cfg.Project),
		sol005.WithInsecureSkipVerify(cfg.InsecureSkipVerify),
		sol005.WithTimeout(cfg.Wait.Timeout),
		sol005.WithPollInterval(cfg.Wait.PollInterval),
		sol005.WithLogger(logger),
	)
}
