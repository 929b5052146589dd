package analysis

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ExportFormat names a result serialization.
type ExportFormat string

// Supported export formats.
const (
	ExportJSON ExportFormat = "json"
	ExportYAML ExportFormat = "yaml"
)

// ParseExportFormat validates a format name.
func ParseExportFormat(name string) (ExportFormat, error) {
	switch ExportFormat(name) {
	case ExportJSON, ExportYAML:
		return ExportFormat(name), nil
	default:
		return "", fmt.Errorf("unsupported export format %q (valid options: json, yaml)", name)
	}
}

// Export writes result to w in the given format.
func Export(w io.Writer, result *Result, format ExportFormat) error {
	if result == nil {
		return fmt.Errorf("no analysis result to export")
	}

	switch format {
	case ExportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result as json: %w", err)
		}
	case ExportYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}

	return nil
}
