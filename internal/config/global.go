// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces the per-user config directory when set.
// os.UserHomeDir ignores HOME on some CI images, so tests pin the directory
// here instead.
var configDirOverride string

// SetConfigDirOverride makes ConfigDir return dir.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears SetConfigDirOverride.
func Reset() {
	configDirOverride = ""
}
