package out

import (
	"io"

	"gopkg.in/yaml.v3"

	"roidash/internal/modules/report/domain"
)

// YAMLExporter writes the report as a YAML document.
type YAMLExporter struct{}

func (e *YAMLExporter) Export(report domain.Report, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	enc.SetIndent(2)
	return enc.Encode(report)
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}
