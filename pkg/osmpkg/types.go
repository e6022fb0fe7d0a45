// SPDX-License-Identifier: MPL-2.0

package osmpkg

import (
	"errors"
	"fmt"
)

const (
	// PackageTypeNS is a network service package.
	PackageTypeNS PackageType = "ns"
	// PackageTypeVNF is a virtual network function package.
	PackageTypeVNF PackageType = "vnf"
	// PackageTypeNST is a network slice template package.
	PackageTypeNST PackageType = "nst"

	// FileRoleDescriptor is the package's YAML descriptor.
	FileRoleDescriptor FileRole = "descriptor"
	// FileRoleReadme is the generated README.md.
	FileRoleReadme FileRole = "readme"
	// FileRoleCloudInit is the VNF cloud-init user data.
	FileRoleCloudInit FileRole = "cloud_init"
)

// ErrInvalidPackageType is the sentinel error wrapped by InvalidPackageTypeError.
var ErrInvalidPackageType = errors.New("invalid package type")

type (
	// PackageType identifies the kind of descriptor a package carries.
	PackageType string

	// InvalidPackageTypeError is returned when a PackageType is not ns, vnf or nst.
	InvalidPackageTypeError struct {
		Value PackageType
	}

	// FileRole tells Create which content to write into a planned file.
	FileRole string

	// FolderEntry is a directory of the canonical package layout.
	FolderEntry struct {
		Path string
		Type PackageType
	}

	// FileEntry is a file of the canonical package layout.
	FileEntry struct {
		Path string
		Type PackageType
		Role FileRole
	}

	// Structure is an ordered plan of folders and files.
	Structure struct {
		Folders []FolderEntry
		Files   []FileEntry
	}
)

// PackageTypes returns every supported package type in display order.
func PackageTypes() []PackageType {
	return []PackageType{PackageTypeNS, PackageTypeVNF, PackageTypeNST}
}

// ParsePackageType converts s to a PackageType and validates it.
func ParsePackageType(s string) (PackageType, error) {
	t := PackageType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// String returns the string representation of the PackageType.
func (t PackageType) String() string { return string(t) }

// Validate returns an error unless t is ns, vnf or nst.
func (t PackageType) Validate() error {
	switch t {
	case PackageTypeNS, PackageTypeVNF, PackageTypeNST:
		return nil
	default:
		return &InvalidPackageTypeError{Value: t}
	}
}

// DirSuffix is the suffix of a package directory of this type ("_vnf").
func (t PackageType) DirSuffix() string { return "_" + string(t) }

// Error implements the error interface for InvalidPackageTypeError.
func (e *InvalidPackageTypeError) Error() string {
	return fmt.Sprintf("Wrong descriptor type %s. Options: ns, vnf, nst", e.Value)
}

// Unwrap returns ErrInvalidPackageType for errors.Is() compatibility.
func (e *InvalidPackageTypeError) Unwrap() error { return ErrInvalidPackageType }

// FolderPaths returns the folder paths of s in plan order.
func (s Structure) FolderPaths() []string {
	paths := make([]string, 0, len(s.Folders))
	for _, f := range s.Folders {
		paths = append(paths, f.Path)
	}
	return paths
}

// FilePaths returns the file paths of s in plan order.
func (s Structure) FilePaths() []string {
	paths := make([]string, 0, len(s.Files))
	for _, f := range s.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// ForType returns the part of s that belongs to package type t.
func (s Structure) ForType(t PackageType) Structure {
	var out Structure
	for _, f := range s.Folders {
		if f.Type == t {
			out.Folders = append(out.Folders, f)
		}
	}
	for _, f := range s.Files {
		if f.Type == t {
			out.Files = append(out.Files, f)
		}
	}
	return out
}
