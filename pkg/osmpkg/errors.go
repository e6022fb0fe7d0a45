// SPDX-License-Identifier: MPL-2.0

package osmpkg

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// NotFoundPackage reports a package directory that does not exist.
	NotFoundPackage NotFoundKind = "package"
	// NotFoundDescriptor reports a package without an nfd.yaml/nsd.yaml descriptor.
	NotFoundDescriptor NotFoundKind = "descriptor"
	// NotFoundCharm reports a charm referenced by the descriptor but absent on disk.
	NotFoundCharm NotFoundKind = "charm"

	// PhaseCreateTempDir is the scratch tree assembly phase.
	PhaseCreateTempDir PackagingPhase = "create temp dir"
	// PhaseChecksum is the checksum manifest phase.
	PhaseChecksum PackagingPhase = "calculate checksum"
	// PhaseArchive is the tar.gz phase.
	PhaseArchive PackagingPhase = "build tar.gz file"
	// PhaseRelocate moves the archive and manifest out of the scratch tree.
	PhaseRelocate PackagingPhase = "relocate outputs"
)

var (
	// ErrValidation is wrapped by ValidationError.
	ErrValidation = errors.New("descriptor validation failed")
	// ErrNotFound is wrapped by NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrBuildTool is wrapped by BuildToolError.
	ErrBuildTool = errors.New("charm build failed")
	// ErrPackaging is wrapped by PackagingError.
	ErrPackaging = errors.New("packaging failed")
)

type (
	// NotFoundKind classifies a NotFoundError.
	NotFoundKind string

	// PackagingPhase names the build step a PackagingError came from.
	PackagingPhase string

	// ValidationError is returned when a descriptor fails validation, or when a
	// package holds no descriptor at all. Nothing has been written when it is returned.
	ValidationError struct {
		Path    string
		Message string
	}

	// NotFoundError is returned when an expected package, descriptor or charm is missing.
	NotFoundError struct {
		Kind NotFoundKind
		Name string
		// Locations lists where the item was looked for.
		Locations []string
	}

	// BuildToolError is returned when the external charm build command fails.
	BuildToolError struct {
		Charm    string
		Command  string
		ExitCode int
		Err      error
	}

	// PackagingError wraps any failure after the scratch tree was created.
	PackagingError struct {
		Phase PackagingPhase
		Err   error
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("there was an error validating the file: %s", e.Path)
	}
	return fmt.Sprintf("there was an error validating the file: %s with error: %s", e.Path, e.Message)
}

// Unwrap returns ErrValidation for errors.Is() compatibility.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	switch e.Kind {
	case NotFoundPackage:
		return fmt.Sprintf("package %s is not in the specified route", e.Name)
	case NotFoundDescriptor:
		return fmt.Sprintf("descriptor name is not correct in: %s", e.Name)
	case NotFoundCharm:
		return fmt.Sprintf("the charm %s referenced in the descriptor file is not present either in %s",
			e.Name, strings.Join(e.Locations, " or in "))
	default:
		return fmt.Sprintf("%s %s not found", e.Kind, e.Name)
	}
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Error implements the error interface.
func (e *BuildToolError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("building charm %s with %q failed (exit status %d)", e.Charm, e.Command, e.ExitCode)
	}
	return fmt.Sprintf("building charm %s with %q failed: %v", e.Charm, e.Command, e.Err)
}

// Unwrap returns ErrBuildTool and the underlying process error.
func (e *BuildToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrBuildTool}
	}
	return []error{ErrBuildTool, e.Err}
}

// Error implements the error interface.
func (e *PackagingError) Error() string {
	return fmt.Sprintf("failure during build of tar.gz file (%s): %v", e.Phase, e.Err)
}

// Unwrap returns ErrPackaging and the phase's underlying error.
func (e *PackagingError) Unwrap() []error {
	return []error{ErrPackaging, e.Err}
}
