// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/osmnfv/osm/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// OutputFormatTable prints aligned tables.
	OutputFormatTable OutputFormat = "table"
	// OutputFormatJSON prints indented JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML prints YAML.
	OutputFormatYAML OutputFormat = "yaml"

	redactedPassword = "********"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidOutputFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// OutputFormat selects how list and show commands print.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// InvalidConfigError collects every field error of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the effective configuration.
	Config struct {
		// Hostname is the orchestrator host, optionally with ":port".
		Hostname           string        `mapstructure:"hostname" json:"hostname" yaml:"hostname"`
		SOPort             types.Port    `mapstructure:"so_port" json:"so_port" yaml:"so_port"`
		User               string        `mapstructure:"user" json:"user" yaml:"user"`
		Password           string        `mapstructure:"password" json:"password" yaml:"password"`
		Project            string        `mapstructure:"project" json:"project" yaml:"project"`
		InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify" json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
		Package            PackageConfig `mapstructure:"package" json:"package" yaml:"package"`
		Wait               WaitConfig    `mapstructure:"wait" json:"wait" yaml:"wait"`
		UI                 UIConfig      `mapstructure:"ui" json:"ui" yaml:"ui"`
		Output             OutputConfig  `mapstructure:"output" json:"output" yaml:"output"`
	}

	// PackageConfig configures package builds.
	PackageConfig struct {
		// BuildCommand builds one charm; see osmpkg.ShellBuildTool.
		BuildCommand string `mapstructure:"build_command" json:"build_command" yaml:"build_command"`
		// BuildTimeout bounds one charm build. Zero means no limit.
		BuildTimeout    time.Duration `mapstructure:"build_timeout" json:"build_timeout" yaml:"build_timeout"`
		IgnorePatterns  []string      `mapstructure:"ignore_patterns" json:"ignore_patterns" yaml:"ignore_patterns"`
		DigestAlgorithm string        `mapstructure:"digest_algorithm" json:"digest_algorithm" yaml:"digest_algorithm"`
	}

	// WaitConfig configures --wait polling.
	WaitConfig struct {
		Timeout      time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout"`
		PollInterval time.Duration `mapstructure:"poll_interval" json:"poll_interval" yaml:"poll_interval"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		ColorScheme ColorScheme `mapstructure:"color_scheme" json:"color_scheme" yaml:"color_scheme"`
		Verbose     bool        `mapstructure:"verbose" json:"verbose" yaml:"verbose"`
	}

	// OutputConfig configures list and show rendering.
	OutputConfig struct {
		Format OutputFormat `mapstructure:"format" json:"format" yaml:"format"`
	}
)

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() *Config {
	return &Config{
		Hostname:           "127.0.0.1",
		SOPort:             9999,
		User:               "admin",
		Password:           "admin",
		Project:            "admin",
		InsecureSkipVerify: true,
		Package: PackageConfig{
			BuildCommand:    `charm build "$CHARM_SOURCE"`,
			IgnorePatterns:  []string{".gitignore"},
			DigestAlgorithm: "md5",
		},
		Wait: WaitConfig{
			Timeout:      600 * time.Second,
			PollInterval: time.Second,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
		Output: OutputConfig{
			Format: OutputFormatTable,
		},
	}
}

// Validate checks the fields CUE cannot check once flags and environment
// variables are applied.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Hostname) == "" {
		errs = append(errs, errors.New("hostname must not be empty"))
	}
	if err := c.SOPort.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Output.Format.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Wait.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("wait.timeout must be positive, got %s", c.Wait.Timeout))
	}
	if c.Wait.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("wait.poll_interval must be positive, got %s", c.Wait.PollInterval))
	}
	if c.Package.BuildTimeout < 0 {
		errs = append(errs, fmt.Errorf("package.build_timeout must not be negative, got %s", c.Package.BuildTimeout))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Redacted returns a copy of c with the password masked, for display.
func (c Config) Redacted() Config {
	if c.Password != "" {
		c.Password = redactedPassword
	}
	c.Package.IgnorePatterns = append([]string(nil), c.Package.IgnorePatterns...)
	return c
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, fe := range e.FieldErrors {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Sprintf("invalid config: %d field error(s): %s", len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// Validate returns an error if the ColorScheme is not auto, dark or light.
func (cs ColorScheme) Validate() error {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: cs}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the OutputFormat.
func (f OutputFormat) String() string { return string(f) }

// Validate returns an error if the OutputFormat is not table, json or yaml.
func (f OutputFormat) Validate() error {
	switch f {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return nil
	default:
		return &InvalidOutputFormatError{Value: f}
	}
}

// Error implements the error interface for InvalidOutputFormatError.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: table, json, yaml)", e.Value)
}

// Unwrap returns ErrInvalidOutputFormat for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }
