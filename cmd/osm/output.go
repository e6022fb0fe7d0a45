// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/osmnfv/osm/internal/config"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

const maskedValue = "********"

// sensitiveFields are masked in show output.
var sensitiveFields = []string{"password"}

// printer renders command results in the configured output format.
type printer struct {
	w      io.Writer
	format config.OutputFormat
}

func newPrinter(w io.Writer, cfg *config.Config) printer {
	format := config.OutputFormatTable
	if cfg != nil && cfg.Output.Format != "" {
		format = cfg.Output.Format
	}
	return printer{w: w, format: format}
}

// table prints header and rows as a table, or data as JSON or YAML. data
// is the structured form of the same result.
func (p printer) table(header table.Row, rows []table.Row, data any) error {
	switch p.format {
	case config.OutputFormatJSON:
		return p.json(data)
	case config.OutputFormatYAML:
		return p.yaml(data)
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(header)
	tw.AppendRows(rows)
	_, err := fmt.Fprintln(p.w, tw.Render())
	return err
}

// fields prints a single resource as a field/value table with sorted keys.
func (p printer) fields(resource map[string]any) error {
	masked := maskSensitive(resource)

	keys := make([]string, 0, len(masked))
	for k := range masked {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	rows := make([]table.Row, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, table.Row{k, formatValue(masked[k])})
	}
	return p.table(table.Row{"field", "value"}, rows, masked)
}

func (p printer) json(data any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (p printer) yaml(data any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// formatValue renders nested values as indented JSON for table cells.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		return val
	case map[string]any, []any:
		out, err := json.MarshalIndent(val, "", "  ")
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(out)
	default:
		return fmt.Sprint(val)
	}
}

func maskSensitive(resource map[string]any) map[string]any {
	masked := maps.Clone(resource)
	for _, k := range sensitiveFields {
		if _, ok := masked[k]; ok {
			masked[k] = maskedValue
		}
	}
	return masked
}
