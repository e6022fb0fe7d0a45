// SPDX-License-Identifier: MPL-2.0

package osmpkg

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	readmeFileName    = "README.md"
	cloudInitFileName = "cloud-config.txt"
)

// CanonicalStructure returns the full layout of packages named name under
// baseDirectory, for every package type, in creation order (parents first).
func CanonicalStructure(baseDirectory, name string) Structure {
	prefix := filepath.Join(baseDirectory, name)
	nsDir := prefix + PackageTypeNS.DirSuffix()
	vnfDir := prefix + PackageTypeVNF.DirSuffix()
	nstDir := prefix + PackageTypeNST.DirSuffix()

	return Structure{
		Folders: []FolderEntry{
			{Path: nsDir, Type: PackageTypeNS},
			{Path: filepath.Join(nsDir, "icons"), Type: PackageTypeNS},
			{Path: filepath.Join(nsDir, charmsDirName), Type: PackageTypeNS},
			{Path: vnfDir, Type: PackageTypeVNF},
			{Path: filepath.Join(vnfDir, charmsDirName), Type: PackageTypeVNF},
			{Path: filepath.Join(vnfDir, "cloud_init"), Type: PackageTypeVNF},
			{Path: filepath.Join(vnfDir, "images"), Type: PackageTypeVNF},
			{Path: filepath.Join(vnfDir, "icons"), Type: PackageTypeVNF},
			{Path: filepath.Join(vnfDir, "scripts"), Type: PackageTypeVNF},
			{Path: nstDir, Type: PackageTypeNST},
			{Path: filepath.Join(nstDir, "icons"), Type: PackageTypeNST},
		},
		Files: []FileEntry{
			{Path: filepath.Join(nsDir, name+"_nsd.yaml"), Type: PackageTypeNS, Role: FileRoleDescriptor},
			{Path: filepath.Join(nsDir, readmeFileName), Type: PackageTypeNS, Role: FileRoleReadme},
			{Path: filepath.Join(vnfDir, name+"_vnfd.yaml"), Type: PackageTypeVNF, Role: FileRoleDescriptor},
			{Path: filepath.Join(vnfDir, "cloud_init", cloudInitFileName), Type: PackageTypeVNF, Role: FileRoleCloudInit},
			{Path: filepath.Join(vnfDir, readmeFileName), Type: PackageTypeVNF, Role: FileRoleReadme},
			{Path: filepath.Join(nstDir, name+"_nst.yaml"), Type: PackageTypeNST, Role: FileRoleDescriptor},
			{Path: filepath.Join(nstDir, readmeFileName), Type: PackageTypeNST, Role: FileRoleReadme},
		},
	}
}

// DiscoverStructure diffs the canonical layout against fs and returns what is
// missing. Folders are returned only when absent. Files are returned when
// absent, or unconditionally when override is set so that callers rewrite
// their content. A missing baseDirectory yields the whole layout.
func DiscoverStructure(fs afero.Fs, baseDirectory, name string, override bool) (Structure, error) {
	canonical := CanonicalStructure(baseDirectory, name)

	var missing Structure
	for _, folder := range canonical.Folders {
		exists, err := afero.Exists(fs, folder.Path)
		if err != nil {
			return Structure{}, fmt.Errorf("checking folder %s: %w", folder.Path, err)
		}
		if !exists {
			missing.Folders = append(missing.Folders, folder)
		}
	}

	for _, file := range canonical.Files {
		if override {
			missing.Files = append(missing.Files, file)
			continue
		}
		exists, err := afero.Exists(fs, file.Path)
		if err != nil {
			return Structure{}, fmt.Errorf("checking file %s: %w", file.Path, err)
		}
		if !exists {
			missing.Files = append(missing.Files, file)
		}
	}

	return missing, nil
}
