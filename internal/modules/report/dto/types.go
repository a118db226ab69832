package dto

import "roidash/internal/modules/report/domain"

type (
	Report     = domain.Report
	Comparison = domain.Comparison
	Impact     = domain.Impact
)

type ExportOutput struct {
	Format string
	Path   string
}

type ShareOutput struct {
	Recipient string
	Link      string
}

// Money formats v as whole dollars with thousands separators.
func Money(v float64) string {
	return domain.Money(v)
}
