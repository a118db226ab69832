package out

import (
	"fmt"

	reportout "roidash/internal/modules/report/port/out"
)

// NewExporter creates an exporter for format.
func NewExporter(format string) (reportout.Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, yaml, md)", format)
	}
}
