// SPDX-License-Identifier: MPL-2.0

package osmpkg

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/osmnfv/osm/pkg/cueutil"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	// ValidationOK marks a descriptor that passed validation.
	ValidationOK ValidationStatus = "OK"
	// ValidationFailed marks a descriptor that failed validation.
	ValidationFailed ValidationStatus = "ERROR"

	// unknownDescriptorType is reported when the root keys match no descriptor kind.
	unknownDescriptorType = "-"
)

//go:embed descriptor_schema.cue
var descriptorSchema []byte

// errUnexpectedFormat is returned for YAML that is not a known descriptor.
var errUnexpectedFormat = errors.New("unexpected descriptor format")

// descriptorKinds lists accepted root keys with their descriptor type and
// schema definition. The first key present in a document decides its type.
var descriptorKinds = []struct {
	rootKey    string
	descType   string
	definition string
}{
	{"vnfd:vnfd-catalog", "vnfd", "#VNFD"},
	{"vnfd-catalog", "vnfd", "#VNFD"},
	{"vnfd", "vnfd", "#VNFD"},
	{"nsd:nsd-catalog", "nsd", "#NSD"},
	{"nsd-catalog", "nsd", "#NSD"},
	{"nsd", "nsd", "#NSD"},
	{"nst:nst", "nst", "#NST"},
	{"nst", "nst", "#NST"},
}

type (
	// ValidationStatus is OK or ERROR.
	ValidationStatus string

	// ValidationRecord is the outcome of validating one descriptor file.
	ValidationRecord struct {
		Type  string           `json:"type" yaml:"type"`
		Path  string           `json:"path" yaml:"path"`
		Valid ValidationStatus `json:"valid" yaml:"valid"`
		Error string           `json:"error" yaml:"error"`
	}

	// Validator checks every descriptor under a directory.
	Validator interface {
		Validate(ctx context.Context, dir string, recursive bool) ([]ValidationRecord, error)
	}

	// CUEValidator validates descriptors against the embedded CUE schema.
	CUEValidator struct {
		fs afero.Fs
	}
)

// NewCUEValidator creates a validator reading descriptors from fs.
func NewCUEValidator(fs afero.Fs) *CUEValidator {
	return &CUEValidator{fs: fs}
}

// Validate returns one record per .yaml file in dir (and its subdirectories
// when recursive is set). A failing descriptor produces an ERROR record, not
// an error; the error return is reserved for failures to list dir.
func (v *CUEValidator) Validate(ctx context.Context, dir string, recursive bool) ([]ValidationRecord, error) {
	paths, err := findDescriptorFiles(v.fs, dir, recursive)
	if err != nil {
		return nil, err
	}

	records := make([]ValidationRecord, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record := ValidationRecord{Type: unknownDescriptorType, Path: path, Valid: ValidationOK, Error: "-"}
		data, readErr := afero.ReadFile(v.fs, path)
		if readErr != nil {
			record.Valid = ValidationFailed
			record.Error = readErr.Error()
			records = append(records, record)
			continue
		}

		descType, validateErr := ValidateDescriptor(data, path)
		record.Type = descType
		if validateErr != nil {
			record.Valid = ValidationFailed
			record.Error = validateErr.Error()
		}
		records = append(records, record)
	}

	return records, nil
}

// ValidateDescriptor detects the descriptor type of data from its root key
// and validates it against the matching schema definition.
// The detected type is returned even when validation fails.
func ValidateDescriptor(data []byte, filename string) (string, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return unknownDescriptorType, fmt.Errorf("%s: %w", filename, err)
	}

	descType, definition := unknownDescriptorType, ""
	for _, kind := range descriptorKinds {
		if _, ok := root[kind.rootKey]; ok {
			descType, definition = kind.descType, kind.definition
			break
		}
	}
	if definition == "" {
		return unknownDescriptorType, fmt.Errorf("%s: %w", filename, errUnexpectedFormat)
	}

	if _, err := cueutil.UnifyYAML(descriptorSchema, data, definition,
		cueutil.WithFilename(filename),
		cueutil.WithConcrete(true),
	); err != nil {
		return descType, err
	}
	return descType, nil
}

// findDescriptorFiles lists "*.yaml" (or "**/*.yaml") under dir in lexical order.
func findDescriptorFiles(fs afero.Fs, dir string, recursive bool) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}

	pattern := "*.yaml"
	if recursive {
		pattern = "**/*.yaml"
	}

	fsys := afero.NewIOFS(afero.NewBasePathFs(fs, absDir))
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("listing descriptors in %s: %w", dir, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
	}
	return paths, nil
}
