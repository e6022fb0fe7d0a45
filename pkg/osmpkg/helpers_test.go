// SPDX-License-Identifier: MPL-2.0

package osmpkg

import (
	"archive/tar"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const sampleVNFD = `vnfd:vnfd-catalog:
  vnfd:
  - id: myvnf_vnfd
    name: myvnf_vnfd
    vendor: OSM
    version: '1.0'
    vnf-configuration:
      juju:
        charm: simple
    vdu:
    - id: myvnf-VM1
      image: ubuntu
      vdu-configuration:
        juju:
          charm: vducharm
    - id: myvnf-VM2
      image: ubuntu
      vdu-configuration:
        juju:
          charm: simple
`

type (
	// fakeBuildTool records requests and writes charms/builds/<name>/metadata.yaml.
	fakeBuildTool struct {
		mu       sync.Mutex
		requests []BuildRequest
		err      error
	}

	// stubValidator always returns the configured records.
	stubValidator struct {
		records []ValidationRecord
		err     error
	}
)

func (f *fakeBuildTool) Build(_ context.Context, req BuildRequest) error {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	out := filepath.Join(req.BuildDir, req.Name)
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(out, "metadata.yaml"), []byte("name: "+req.Name+"\n"), 0o644)
}

func (f *fakeBuildTool) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.requests))
	for _, r := range f.requests {
		out = append(out, r.Name)
	}
	return out
}

func (s *stubValidator) Validate(context.Context, string, bool) ([]ValidationRecord, error) {
	return s.records, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll(%s): %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

// newSamplePackage lays out myvnf_vnf under a fresh temp dir:
// a prebuilt charm "simple", layer sources for "vducharm" and an unreferenced charm.
func newSamplePackage(t *testing.T) string {
	t.Helper()
	folder := filepath.Join(t.TempDir(), "myvnf_vnf")
	writeFile(t, filepath.Join(folder, "myvnf_vnfd.yaml"), sampleVNFD)
	writeFile(t, filepath.Join(folder, "README.md"), "readme\n")
	writeFile(t, filepath.Join(folder, ".gitignore"), "*.tar.gz\n")
	writeFile(t, filepath.Join(folder, "icons", "logo.png"), "png")
	writeFile(t, filepath.Join(folder, "charms", "simple", "metadata.yaml"), "name: simple\n")
	writeFile(t, filepath.Join(folder, "charms", "layers", "vducharm", "layer.yaml"), "includes: []\n")
	writeFile(t, filepath.Join(folder, "charms", "unused", "metadata.yaml"), "name: unused\n")
	return folder
}

// tarEntries returns the sorted entry names of a tar.gz archive.
func tarEntries(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open(%s): %v", path, err)
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	tr := tar.NewReader(gz)

	var names []string
	for {
		h, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("tar Next: %v", err)
		}
		names = append(names, h.Name)
	}
	slices.Sort(names)
	return names
}
