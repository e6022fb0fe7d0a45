// SPDX-License-Identifier: MPL-2.0

package osmpkg

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type (
	// TemplateData carries the values a descriptor template may reference.
	TemplateData struct {
		Name            string
		Vendor          string
		Image           string
		VDUs            int
		VCPU            int
		Memory          int
		Storage         int
		Interfaces      int
		Detailed        bool
		NetsliceSubnets int
		NetsliceVLDs    int
	}

	// Renderer produces descriptor text for a package type.
	Renderer interface {
		Render(t PackageType, data TemplateData) (string, error)
	}

	// TemplateRenderer renders the embedded starter descriptors.
	TemplateRenderer struct {
		templates *template.Template
	}
)

var templateFuncs = template.FuncMap{
	// seq returns 1..n for counted blocks.
	"seq": func(n int) []int {
		out := make([]int, 0, max(n, 0))
		for i := 1; i <= n; i++ {
			out = append(out, i)
		}
		return out
	},
}

// NewTemplateRenderer parses the embedded templates.
func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{
		templates: template.Must(template.New("descriptors").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")),
	}
}

// Render renders the descriptor template of type t.
func (r *TemplateRenderer) Render(t PackageType, data TemplateData) (string, error) {
	var name string
	switch t {
	case PackageTypeNS:
		name = "nsd.yaml.tmpl"
	case PackageTypeVNF:
		name = "vnfd.yaml.tmpl"
	case PackageTypeNST:
		name = "nst.yaml.tmpl"
	default:
		return "", &InvalidPackageTypeError{Value: t}
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}
