package out

import (
	"io"

	"roidash/internal/modules/report/domain"
)

// Exporter renders a report in one document format.
type Exporter interface {
	Export(report domain.Report, w io.Writer) error
	Extension() string
}

// Merger is implemented by exporters that can refresh a previously exported
// document in place, keeping whatever the user added around the generated part.
type Merger interface {
	Merge(existing, fresh []byte) ([]byte, error)
}

// ExporterFactory resolves an exporter by format name.
type ExporterFactory func(format string) (Exporter, error)
