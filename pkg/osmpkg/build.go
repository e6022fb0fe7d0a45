// SPDX-License-Identifier: MPL-2.0

package osmpkg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type (
	// BuildOptions controls which optional steps Build runs.
	BuildOptions struct {
		// SkipValidation skips descriptor validation.
		SkipValidation bool
		// SkipCharmBuild lists charms without building or checking them.
		SkipCharmBuild bool
	}

	// BuildResult describes a built package.
	BuildResult struct {
		// ArchivePath is "<parent of folder>/<package name>.tar.gz".
		ArchivePath string
		// ChecksumPath is "<folder>/checksums.txt".
		ChecksumPath string
		// Charms are the charm references of the descriptor, in document order.
		Charms []string
	}
)

// Build packages folder into a tar.gz next to it.
//
// Validation and charm resolution run before anything is written. From the
// moment the scratch tree is created, every failure is returned as a
// *PackagingError naming the phase, and the scratch directory is removed
// whatever the outcome.
func (t *Tool) Build(ctx context.Context, folder string, opts BuildOptions) (result *BuildResult, err error) {
	if !isDir(folder) {
		return nil, &NotFoundError{Kind: NotFoundPackage, Name: folder}
	}
	folder, err = filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve package path: %w", err)
	}
	if err := t.digest.Validate(); err != nil {
		return nil, err
	}

	if !opts.SkipValidation {
		if err := t.validatePackage(ctx, folder); err != nil {
			return nil, err
		}
	}

	charms, err := t.ResolveCharms(ctx, folder, opts.SkipCharmBuild)
	if err != nil {
		return nil, err
	}

	scratch := filepath.Join(folder, scratchDirName)
	// A scratch tree left behind by a killed process must not leak into this build.
	if err := os.RemoveAll(scratch); err != nil {
		return nil, &PackagingError{Phase: PhaseCreateTempDir, Err: err}
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			t.logger.Warn("failed to remove scratch directory", "path", scratch, "error", rmErr)
		}
	}()

	scratchParent, packageName, err := t.assemble(folder, charms)
	if err != nil {
		return nil, &PackagingError{Phase: PhaseCreateTempDir, Err: err}
	}
	packageDir := filepath.Join(scratchParent, packageName)

	manifest, err := WriteChecksums(packageDir, t.digest)
	if err != nil {
		return nil, &PackagingError{Phase: PhaseChecksum, Err: err}
	}

	scratchArchive := filepath.Join(scratchParent, packageName+".tar.gz")
	t.logger.Info("building archive", "package", packageName)
	if err := writeTarGz(packageDir, scratchArchive); err != nil {
		return nil, &PackagingError{Phase: PhaseArchive, Err: err}
	}

	result = &BuildResult{
		ArchivePath:  filepath.Join(filepath.Dir(folder), packageName+".tar.gz"),
		ChecksumPath: filepath.Join(folder, ChecksumFileName),
		Charms:       charms,
	}
	if err := os.Rename(scratchArchive, result.ArchivePath); err != nil {
		return nil, &PackagingError{Phase: PhaseRelocate, Err: err}
	}
	if err := os.Rename(manifest, result.ChecksumPath); err != nil {
		return nil, &PackagingError{Phase: PhaseRelocate, Err: err}
	}

	t.logger.Info("package created", "archive", result.ArchivePath)
	return result, nil
}

// validatePackage runs the validator over the top level of folder and turns
// the first failing record into a *ValidationError.
func (t *Tool) validatePackage(ctx context.Context, folder string) error {
	records, err := t.validator.Validate(ctx, folder, false)
	if err != nil {
		return fmt.Errorf("validating %s: %w", folder, err)
	}
	if len(records) == 0 {
		return &ValidationError{Path: folder, Message: "no descriptor in this package"}
	}
	for _, r := range records {
		if r.Valid != ValidationOK {
			return &ValidationError{Path: r.Path, Message: r.Error}
		}
	}
	return nil
}

// Validate validates every descriptor under dir.
func (t *Tool) Validate(ctx context.Context, dir string, recursive bool) ([]ValidationRecord, error) {
	return t.validator.Validate(ctx, dir, recursive)
}
