// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE or
// TOML as the file format.
//
// Configuration is loaded from <config dir>/osm/config.cue (or config.toml),
// where the config dir is $XDG_CONFIG_HOME on Linux, ~/Library/Application
// Support on macOS and %APPDATA% on Windows. OSM_* environment variables and
// command-line flags take precedence over the file; defaults fill the rest.
//
// Both file formats are validated against the embedded #Config CUE schema
// (config_schema.cue) so that mistakes are reported with the offending path.
package config
