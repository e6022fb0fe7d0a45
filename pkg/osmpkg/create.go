// SPDX-License-Identifier: MPL-2.0

package osmpkg

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const (
	// readmeHeader is the first line of every generated README.
	readmeHeader = "# Descriptor created by OSM descriptor package generated"
	// readmeTimeLayout renders MM/DD/YYYY, HH:MM:SS.
	readmeTimeLayout = "01/02/2006, 15:04:05"
	// cloudInitContent is the starter cloud-init user data.
	cloudInitContent = "---\n#cloud-config"
)

// ErrInvalidCreateOptions is the sentinel error wrapped by InvalidCreateOptionsError.
var ErrInvalidCreateOptions = errors.New("invalid create options")

type (
	// CreateOptions describes the package to scaffold.
	CreateOptions struct {
		Type          PackageType
		BaseDirectory string
		Name          string
		// Override rewrites files that already exist.
		Override bool

		Image      string
		VDUs       int
		VCPU       int
		Memory     int
		Storage    int
		Interfaces int
		Vendor     string
		// Detailed adds optional descriptor sections.
		Detailed bool

		NetsliceSubnets int
		NetsliceVLDs    int
	}

	// InvalidCreateOptionsError is returned when a CreateOptions field is out of range.
	InvalidCreateOptionsError struct {
		Field  string
		Reason string
	}

	// CreateResult lists what Create wrote.
	CreateResult struct {
		PackageDir string
		Folders    []string
		Files      []string
	}
)

// Error implements the error interface for InvalidCreateOptionsError.
func (e *InvalidCreateOptionsError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrInvalidCreateOptions for errors.Is() compatibility.
func (e *InvalidCreateOptionsError) Unwrap() error { return ErrInvalidCreateOptions }

// Validate checks the type, the name and the counts relevant to that type.
func (o CreateOptions) Validate() error {
	if err := o.Type.Validate(); err != nil {
		return err
	}
	if o.Name == "" {
		return &InvalidCreateOptionsError{Field: "name", Reason: "must not be empty"}
	}
	if filepath.Base(o.Name) != o.Name {
		return &InvalidCreateOptionsError{Field: "name", Reason: "must not contain path separators"}
	}

	switch o.Type {
	case PackageTypeVNF:
		if o.VDUs < 1 {
			return &InvalidCreateOptionsError{Field: "vdus", Reason: "must be at least 1"}
		}
		if o.VCPU < 1 {
			return &InvalidCreateOptionsError{Field: "vcpu", Reason: "must be at least 1"}
		}
		if o.Memory < 1 {
			return &InvalidCreateOptionsError{Field: "memory", Reason: "must be at least 1"}
		}
		if o.Storage < 1 {
			return &InvalidCreateOptionsError{Field: "storage", Reason: "must be at least 1"}
		}
		if o.Interfaces < 0 {
			return &InvalidCreateOptionsError{Field: "interfaces", Reason: "must not be negative"}
		}
	case PackageTypeNS:
		if o.VDUs < 1 {
			return &InvalidCreateOptionsError{Field: "vdus", Reason: "must be at least 1"}
		}
	case PackageTypeNST:
		if o.NetsliceSubnets < 1 {
			return &InvalidCreateOptionsError{Field: "netslice-subnets", Reason: "must be at least 1"}
		}
		if o.NetsliceVLDs < 0 {
			return &InvalidCreateOptionsError{Field: "netslice-vlds", Reason: "must not be negative"}
		}
	}
	return nil
}

func (o CreateOptions) templateData() TemplateData {
	return TemplateData{
		Name:            o.Name,
		Vendor:          o.Vendor,
		Image:           o.Image,
		VDUs:            o.VDUs,
		VCPU:            o.VCPU,
		Memory:          o.Memory,
		Storage:         o.Storage,
		Interfaces:      o.Interfaces,
		Detailed:        o.Detailed,
		NetsliceSubnets: o.NetsliceSubnets,
		NetsliceVLDs:    o.NetsliceVLDs,
	}
}

// Create scaffolds a package of opts.Type under opts.BaseDirectory. Existing
// folders are reused; existing files are kept unless opts.Override is set.
func (t *Tool) Create(ctx context.Context, opts CreateOptions) (*CreateResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	descriptor, err := t.renderer.Render(opts.Type, opts.templateData())
	if err != nil {
		return nil, err
	}

	plan, err := DiscoverStructure(t.fs, opts.BaseDirectory, opts.Name, opts.Override)
	if err != nil {
		return nil, err
	}
	plan = plan.ForType(opts.Type)

	result := &CreateResult{
		PackageDir: filepath.Join(opts.BaseDirectory, opts.Name+opts.Type.DirSuffix()),
	}

	for _, folder := range plan.Folders {
		t.logger.Debug("creating folder", "path", folder.Path)
		if err := t.fs.MkdirAll(folder.Path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create folder %s: %w", folder.Path, err)
		}
		result.Folders = append(result.Folders, folder.Path)
	}

	for _, file := range plan.Files {
		var content string
		switch file.Role {
		case FileRoleDescriptor:
			content = descriptor
		case FileRoleReadme:
			content = readmeContent(t.now())
		case FileRoleCloudInit:
			content = cloudInitContent
		default:
			return nil, fmt.Errorf("unknown file role %q for %s", file.Role, file.Path)
		}

		t.logger.Debug("writing file", "path", file.Path, "role", file.Role)
		if err := afero.WriteFile(t.fs, file.Path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
		result.Files = append(result.Files, file.Path)
	}

	t.logger.Info("package created", "type", opts.Type, "path", result.PackageDir)
	return result, nil
}

func readmeContent(now time.Time) string {
	return readmeHeader + "\n\n**Created on " + now.Format(readmeTimeLayout) + " **"
}
