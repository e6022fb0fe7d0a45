// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/osmnfv/osm/internal/config"
	"github.com/osmnfv/osm/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// skipConfigAnnotation marks commands that must work with a broken config file.
const skipConfigAnnotation = "osm/skip-config"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the values of the global flags. Server and output values
// reach the configuration through flag binding; only the config path is
// read directly.
type rootFlags struct {
	configFile string
}

// NewRootCommand builds the full command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	var flags rootFlags
	defaults := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "osm",
		Short: "Client for the OSM NFV orchestrator",
		Long: TitleStyle.Render("osm") + SubtitleStyle.Render(" - Client for the OSM NFV orchestrator") + `

osm builds descriptor packages for network services, VNFs and network
slice templates, and manages SDN controllers and WIM accounts through the
orchestrator's northbound API.

` + SubtitleStyle.Render("Examples:") + `
  osm package-create vnf myvnf          Scaffold a VNF package
  osm package-build ./myvnf_vnf         Validate and archive a package
  osm sdnc-list                         List SDN controllers
  osm --hostname 10.0.0.5 version       Show the server version
  osm config show                       Show current configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: app.run(func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfigAnnotation] == "true" {
				return nil
			}
			return app.loadConfig(cmd.Context(), config.LoadOptions{
				ConfigFilePath: types.FilesystemPath(flags.configFile),
				Flags:          cmd.Root().PersistentFlags(),
			})
		}),
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/osm/config.cue)")
	pf.String("hostname", defaults.Hostname, "hostname of the orchestrator northbound API [$OSM_HOSTNAME]")
	pf.Int("so-port", int(defaults.SOPort), "northbound API port [$OSM_SO_PORT]")
	pf.String("user", defaults.User, "user name [$OSM_USER]")
	pf.String("password", defaults.Password, "password [$OSM_PASSWORD]")
	pf.String("project", defaults.Project, "project name [$OSM_PROJECT]")
	pf.Bool("insecure-skip-verify", defaults.InsecureSkipVerify, "skip TLS certificate verification")
	pf.BoolP("verbose", "v", false, "enable verbose output")
	pf.StringP("output", "o", string(defaults.Output.Format), "output format: table, json or yaml")

	rootCmd.AddCommand(
		newPackageCreateCommand(app),
		newPackageValidateCommand(app),
		newPackageBuildCommand(app),
		newSDNCCreateCommand(app),
		newSDNCUpdateCommand(app),
		newSDNCDeleteCommand(app),
		newSDNCListCommand(app),
		newSDNCShowCommand(app),
		newWIMCreateCommand(app),
		newWIMUpdateCommand(app),
		newWIMDeleteCommand(app),
		newWIMListCommand(app),
		newWIMShowCommand(app),
		newVersionCommand(app),
		newConfigCommand(app, &flags),
	)

	return rootCmd
}

// run adapts a handler to cobra. Failures are classified, their guidance
// is printed to stderr, and the error is handed back to the caller for the
// one-line summary.
func (a *App) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		err = wrapServiceError(err)
		renderServiceError(a.stderr, err, a.verbose(), a.glamourStyle())
		return err
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the command's status.
func Execute() {
	app := NewApp(Dependencies{})
	app.installLogger = true
	rootCmd := NewRootCommand(app)

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(int(types.ExitCodeOf(err)))
	}
}
