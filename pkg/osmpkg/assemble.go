// SPDX-License-Identifier: MPL-2.0

package osmpkg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	cp "github.com/otiai10/copy"
)

// scratchDirName is the scratch directory created inside the package.
const scratchDirName = "tmp"

// assemble copies the package at folder into folder/tmp/<package name>,
// keeping only the referenced charms from charms/ (taken from charms/<name>,
// else charms/builds/<name>). It returns the scratch parent and the package name.
func (t *Tool) assemble(folder string, charms []string) (scratchParent, packageName string, err error) {
	absFolder, err := filepath.Abs(folder)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve package path: %w", err)
	}
	packageName = filepath.Base(absFolder)
	scratchParent = filepath.Join(absFolder, scratchDirName)
	dest := filepath.Join(scratchParent, packageName)

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create scratch directory: %w", err)
	}
	t.logger.Debug("scratch directory created", "path", dest)

	entries, err := os.ReadDir(absFolder)
	if err != nil {
		return "", "", fmt.Errorf("failed to read package directory: %w", err)
	}

	opts := t.copyOptions()
	for _, entry := range entries {
		name := entry.Name()
		if name == scratchDirName {
			continue
		}
		src := filepath.Join(absFolder, name)
		dst := filepath.Join(dest, name)

		if name == charmsDirName && entry.IsDir() {
			if err := t.copyCharms(src, dst, folder, charms, opts); err != nil {
				return "", "", err
			}
			continue
		}

		if t.ignored(name) {
			t.logger.Debug("ignoring entry", "path", src)
			continue
		}
		t.logger.Debug("copying", "from", src, "to", dst)
		if err := cp.Copy(src, dst, opts); err != nil {
			return "", "", fmt.Errorf("failed to copy %s: %w", src, err)
		}
	}

	return scratchParent, packageName, nil
}

func (t *Tool) copyCharms(charmsSrc, charmsDst, folder string, charms []string, opts cp.Options) error {
	if err := os.MkdirAll(charmsDst, 0o755); err != nil {
		return fmt.Errorf("failed to create charms directory: %w", err)
	}

	buildsSrc := filepath.Join(charmsSrc, buildsDirName)
	for _, name := range charms {
		src := filepath.Join(charmsSrc, name)
		if !isDir(src) {
			src = filepath.Join(buildsSrc, name)
			if !isDir(src) {
				return &NotFoundError{
					Kind: NotFoundCharm,
					Name: name,
					Locations: []string{
						filepath.Join(folder, charmsDirName),
						filepath.Join(folder, charmsDirName, buildsDirName),
					},
				}
			}
		}

		t.logger.Debug("copying charm", "charm", name, "from", src)
		if err := cp.Copy(src, filepath.Join(charmsDst, name), opts); err != nil {
			return fmt.Errorf("failed to copy charm %s: %w", name, err)
		}
	}
	return nil
}

// copyOptions keeps symbolic links as links and drops ignored entries.
func (t *Tool) copyOptions() cp.Options {
	return cp.Options{
		OnSymlink: func(string) cp.SymlinkAction {
			return cp.Shallow
		},
		Skip: func(_ os.FileInfo, src, _ string) (bool, error) {
			return t.ignored(filepath.Base(src)), nil
		},
	}
}

// ignored reports whether a base name matches one of the ignore patterns.
func (t *Tool) ignored(name string) bool {
	for _, pattern := range t.ignorePatterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
