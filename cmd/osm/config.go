// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/osmnfv/osm/internal/config"
	"github.com/osmnfv/osm/pkg/types"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `osm config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage osm configuration",
		Long: `Manage osm configuration.

Configuration is stored in:
  - Linux: ~/.config/osm/config.cue
  - macOS: ~/Library/Application Support/osm/config.cue
  - Windows: %APPDATA%\osm\config.cue

config.toml is read when no config.cue exists. OSM_* environment variables
and command-line flags override the file.`,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			cfg, err := app.config()
			if err != nil {
				return err
			}
			path, err := config.ResolvePath(config.LoadOptions{ConfigFilePath: types.FilesystemPath(flags.configFile)})
			if err != nil {
				return err
			}

			p := newPrinter(app.stdout, cfg)
			redacted := cfg.Redacted()
			if p.format != config.OutputFormatTable {
				if p.format == config.OutputFormatJSON {
					return p.json(redacted)
				}
				return p.yaml(redacted)
			}
			showConfig(app.stdout, path, redacted)
			return nil
		}),
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:         "init",
		Short:       "Create the default configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig("")
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		}),
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:         "path",
		Short:       "Show the configuration file path",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			path, err := config.ResolvePath(config.LoadOptions{ConfigFilePath: types.FilesystemPath(flags.configFile)})
			if err != nil {
				return err
			}

			fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
			if path == "" {
				fmt.Fprintf(app.stdout, "Config file: %s\n", SubtitleStyle.Render("(none, using defaults)"))
			} else {
				fmt.Fprintf(app.stdout, "Config file: %s\n", path)
			}
			return nil
		}),
	})

	return cfgCmd
}

func showConfig(w io.Writer, path string, cfg config.Config) {
	kv := func(indent, key string, value any) {
		fmt.Fprintf(w, "%s%s: %s\n", indent, KeyStyle.Render(key), SuccessStyle.Render(fmt.Sprint(value)))
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if path == "" {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), path)
	}
	fmt.Fprintln(w)

	kv("", "hostname", cfg.Hostname)
	kv("", "so_port", cfg.SOPort)
	kv("", "user", cfg.User)
	kv("", "password", cfg.Password)
	kv("", "project", cfg.Project)
	kv("", "insecure_skip_verify", cfg.InsecureSkipVerify)

	fmt.Fprintf(w, "\n%s:\n", KeyStyle.Render("package"))
	kv("  ", "build_command", cfg.Package.BuildCommand)
	kv("  ", "build_timeout", cfg.Package.BuildTimeout)
	kv("  ", "ignore_patterns", strings.Join(cfg.Package.IgnorePatterns, ", "))
	kv("  ", "digest_algorithm", cfg.Package.DigestAlgorithm)

	fmt.Fprintf(w, "\n%s:\n", KeyStyle.Render("wait"))
	kv("  ", "timeout", cfg.Wait.Timeout)
	kv("  ", "poll_interval", cfg.Wait.PollInterval)

	fmt.Fprintf(w, "\n%s:\n", KeyStyle.Render("ui"))
	kv("  ", "color_scheme", cfg.UI.ColorScheme)
	kv("  ", "verbose", cfg.UI.Verbose)

	fmt.Fprintf(w, "\n%s:\n", KeyStyle.Render("output"))
	kv("  ", "format", cfg.Output.Format)
}
