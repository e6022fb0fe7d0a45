// SPDX-License-Identifier: MPL-2.0

package osmpkg

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestValidateDescriptor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		document string
		wantType string
		wantErr  string
	}{
		{
			name:     "valid vnfd",
			document: sampleVNFD,
			wantType: "vnfd",
		},
		{
			name: "valid nsd without prefix",
			document: `nsd-catalog:
  nsd:
  - id: myns
    constituent-vnfd:
    - member-vnf-index: 1
      vnfd-id-ref: myvnf
`,
			wantType: "nsd",
		},
		{
			name: "valid nst",
			document: `nst:
- id: slice
  netslice-subnet:
  - id: sub1
    nsd-ref: myns
`,
			wantType: "nst",
		},
		{
			name: "valid vnfd bare root",
			document: `vnfd:
  id: a
  vdu:
  - id: a-vdu
`,
			wantType: "vnfd",
		},
		{
			name:     "bare vnfd root without id",
			document: "vnfd:\n  description: nameless\n",
			wantType: "vnfd",
			wantErr:  "vnfd.id",
		},
		{
			name: "valid nsd bare root",
			document: `nsd:
  nsd:
  - id: myns
`,
			wantType: "nsd",
		},
		{
			name: "vdu without id",
			document: `vnfd:vnfd-catalog:
  vnfd:
  - id: x
    vdu:
    - name: nameless
`,
			wantType: "vnfd",
			wantErr:  "id",
		},
		{
			name: "empty vnfd list",
			document: `vnfd:vnfd-catalog:
  vnfd: []
`,
			wantType: "vnfd",
			wantErr:  "bad.yaml",
		},
		{
			name:     "unknown root key",
			document: "foo: bar\n",
			wantType: "-",
			wantErr:  "unexpected descriptor format",
		},
		{
			name:     "malformed yaml",
			document: "a: [unclosed",
			wantType: "-",
			wantErr:  "bad.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotType, err := ValidateDescriptor([]byte(tt.document), "bad.yaml")
			if gotType != tt.wantType {
				t.Errorf("type = %q, want %q", gotType, tt.wantType)
			}
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateDescriptor() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateDescriptor() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDescriptor_StableTypeForSeveralRootKeys(t *testing.T) {
	t.Parallel()

	document := []byte(`nst:
- id: slice
  netslice-subnet:
  - id: sub1
    nsd-ref: myns
nsd-catalog:
  nsd:
  - id: myns
`)
	for range 20 {
		gotType, _ := ValidateDescriptor(document, "multi.yaml")
		if gotType != "nsd" {
			t.Fatalf("type = %q, want %q on every run", gotType, "nsd")
		}
	}
}

func TestCUEValidator_Records(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/pkgs/a_vnfd.yaml":        sampleVNFD,
		"/pkgs/b.yaml":             "foo: bar\n",
		"/pkgs/notes.txt":          "ignored",
		"/pkgs/nested/c_nsd.yaml":  "nsd:nsd-catalog:\n  nsd:\n  - id: c\n",
		"/pkgs/nested/deeper.yaml": "nst:\n- id: s\n  netslice-subnet: []\n",
	}
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	v := NewCUEValidator(fs)

	flat, err := v.Validate(t.Context(), "/pkgs", false)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(flat) != 2 {
		t.Fatalf("non-recursive Validate() returned %d records, want 2: %+v", len(flat), flat)
	}
	if flat[0].Path != filepath.Join("/pkgs", "a_vnfd.yaml") || flat[0].Valid != ValidationOK || flat[0].Error != "-" {
		t.Errorf("record[0] = %+v", flat[0])
	}
	if flat[1].Type != "-" || flat[1].Valid != ValidationFailed {
		t.Errorf("record[1] = %+v", flat[1])
	}

	all, err := v.Validate(t.Context(), "/pkgs", true)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("recursive Validate() returned %d records, want 4: %+v", len(all), all)
	}
	var failed int
	for _, r := range all {
		if r.Valid == ValidationFailed {
			failed++
		}
	}
	// b.yaml has no known root key and deeper.yaml has an empty netslice-subnet list.
	if failed != 2 {
		t.Errorf("recursive Validate() failed records = %d, want 2: %+v", failed, all)
	}
}

func TestCUEValidator_CanceledContext(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/pkgs/a_vnfd.yaml", []byte(sampleVNFD), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := NewCUEValidator(fs).Validate(ctx, "/pkgs", false); !errors.Is(err, context.Canceled) {
		t.Errorf("Validate() error = %v, want context.Canceled", err)
	}
}
