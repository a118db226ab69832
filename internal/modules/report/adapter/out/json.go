package out

import (
	"encoding/json"
	"io"

	"roidash/internal/modules/report/domain"
)

// JSONExporter writes the report as indented JSON.
type JSONExporter struct{}

func (e *JSONExporter) Export(report domain.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func (e *JSONExporter) Extension() string {
	return "json"
}
