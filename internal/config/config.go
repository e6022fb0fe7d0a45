// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/osmnfv/osm/internal/issue"
	"github.com/osmnfv/osm/pkg/cueutil"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "osm"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the preferred config file extension.
	ConfigFileExt = "cue"
	// TOMLFileExt is the alternative config file extension.
	TOMLFileExt = "toml"

	// EnvPrefix prefixes every environment variable read by the loader.
	EnvPrefix = "OSM"

	schemaDefinition = "#Config"
)

//go:embed config_schema.cue
var configSchema []byte

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"hostname":             "hostname",
	"so-port":              "so_port",
	"user":                 "user",
	"password":             "password",
	"project":              "project",
	"insecure-skip-verify": "insecure_skip_verify",
	"verbose":              "ui.verbose",
	"output":               "output.format",
}

// ConfigDir returns <user config dir>/osm: %APPDATA% on Windows,
// ~/Library/Application Support on macOS and $XDG_CONFIG_HOME or ~/.config
// elsewhere.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating the user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// ResolvePath returns the config file the loader would read for opts, or ""
// when none exists and defaults apply.
func ResolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return string(opts.ConfigFilePath), nil
	}

	cfgDir, err := configDirWithOverride(string(opts.ConfigDirPath))
	if err != nil {
		return "", err
	}

	var candidates []string
	for _, dir := range []string{cfgDir, "."} {
		for _, ext := range []string{ConfigFileExt, TOMLFileExt} {
			candidates = append(candidates, filepath.Join(dir, ConfigFileName+"."+ext))
		}
	}
	for _, path := range candidates {
		if fileExists(path) {
			return path, nil
		}
	}
	return "", nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()
	setDefaults(v)

	// OSM_HOSTNAME, OSM_SO_PORT, OSM_PACKAGE_BUILD_COMMAND, ...
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFilePath != "" && !fileExists(string(opts.ConfigFilePath)) {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(string(opts.ConfigFilePath)).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Check that the file exists and is readable").
			WithSuggestion("Use 'osm config show' to see the default configuration").
			Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
			BuildError()
	}

	resolvedPath, err := ResolvePath(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadFileIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE or TOML syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'osm config init' to write a documented default file").
				Wrap(err).
				BuildError()
		}
	}

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, "", err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check OSM_* environment variables and command-line flags").
			WithSuggestion("Use 'osm config show' to print the effective configuration").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("hostname", defaults.Hostname)
	v.SetDefault("so_port", int(defaults.SOPort))
	v.SetDefault("user", defaults.User)
	v.SetDefault("password", defaults.Password)
	v.SetDefault("project", defaults.Project)
	v.SetDefault("insecure_skip_verify", defaults.InsecureSkipVerify)
	v.SetDefault("package.build_command", defaults.Package.BuildCommand)
	v.SetDefault("package.build_timeout", defaults.Package.BuildTimeout)
	v.SetDefault("package.ignore_patterns", defaults.Package.IgnorePatterns)
	v.SetDefault("package.digest_algorithm", defaults.Package.DigestAlgorithm)
	v.SetDefault("wait.timeout", defaults.Wait.Timeout)
	v.SetDefault("wait.poll_interval", defaults.Wait.PollInterval)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("output.format", string(defaults.Output.Format))
}

// bindFlags binds the known flags present in fs. Only flags the user set
// override lower-precedence sources.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for flagName, key := range flagKeys {
		f := fs.Lookup(flagName)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", flagName, err)
		}
	}
	return nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadFileIntoViper validates a CUE or TOML file against the #Config schema
// and merges its contents into Viper.
func loadFileIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), "."+TOMLFileExt) {
		// JSON is valid CUE, so the decoded TOML document goes through the same schema.
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	// Config fields are optional, so the unified value is not required to be concrete.
	unified, err := cueutil.Unify(configSchema, data, schemaDefinition, cueutil.WithFilename(path))
	if err != nil {
		return err
	}

	configMap, err := cueutil.Decode[map[string]any](unified, path)
	if err != nil {
		return err
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config.cue into dir (the platform
// config dir when empty) unless one exists, and returns its path.
func CreateDefaultConfig(dir string) (path string, created bool, err error) {
	cfgDir, err := configDirWithOverride(dir)
	if err != nil {
		return "", false, err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(cfgPath) {
		return cfgPath, false, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o600); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, true, nil
}

// GenerateCUE generates a CUE representation of the configuration.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// OSM client configuration file\n")
	sb.WriteString("// Environment variables (OSM_HOSTNAME, OSM_SO_PORT, ...) and flags override these values.\n\n")

	fmt.Fprintf(&sb, "hostname: %q\n", cfg.Hostname)
	fmt.Fprintf(&sb, "so_port:  %d\n", cfg.SOPort)
	fmt.Fprintf(&sb, "user:     %q\n", cfg.User)
	fmt.Fprintf(&sb, "password: %q\n", cfg.Password)
	fmt.Fprintf(&sb, "project:  %q\n", cfg.Project)
	fmt.Fprintf(&sb, "insecure_skip_verify: %v\n", cfg.InsecureSkipVerify)

	sb.WriteString("\npackage: {\n")
	fmt.Fprintf(&sb, "\tbuild_command: %q\n", cfg.Package.BuildCommand)
	if cfg.Package.BuildTimeout > 0 {
		fmt.Fprintf(&sb, "\tbuild_timeout: %q\n", cfg.Package.BuildTimeout.String())
	}
	sb.WriteString("\tignore_patterns: [")
	for i, p := range cfg.Package.IgnorePatterns {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", p)
	}
	sb.WriteString("]\n")
	fmt.Fprintf(&sb, "\tdigest_algorithm: %q\n", cfg.Package.DigestAlgorithm)
	sb.WriteString("}\n")

	sb.WriteString("\nwait: {\n")
	fmt.Fprintf(&sb, "\ttimeout:       %q\n", cfg.Wait.Timeout.String())
	fmt.Fprintf(&sb, "\tpoll_interval: %q\n", cfg.Wait.PollInterval.String())
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	sb.WriteString("\noutput: {\n")
	fmt.Fprintf(&sb, "\tformat: %q\n", cfg.Output.Format)
	sb.WriteString("}\n")

	return sb.String()
}
