package out

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"roidash/internal/modules/report/domain"
	"roidash/internal/platform/markdown"
)

const (
	blockStart = "<!-- roidash:report:start -->"
	blockEnd   = "<!-- roidash:report:end -->"
)

// MarkdownExporter writes the report as Markdown with YAML front matter.
// Generated tables sit inside a managed block that Merge refreshes.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(report domain.Report, w io.Writer) error {
	body := fmt.Sprintf("# ROI Report: %s\n\n", report.Client.Name)
	body += blockStart + "\n" + renderTables(report) + "\n" + blockEnd + "\n"
	doc, err := markdown.RenderFrontmatter(frontmatter(report), body)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, doc)
	return err
}

func (e *MarkdownExporter) Extension() string {
	return "md"
}

// Merge replaces the front matter and managed block of existing with the
// ones in fresh.
func (e *MarkdownExporter) Merge(existing, fresh []byte) ([]byte, error) {
	_, oldBody, err := markdown.SplitFrontmatter(string(existing))
	if err != nil {
		return nil, fmt.Errorf("read existing report: %w", err)
	}
	_, newBody, err := markdown.SplitFrontmatter(string(fresh))
	if err != nil {
		return nil, err
	}
	generated, ok := markdown.ManagedContent(newBody, blockStart, blockEnd)
	if !ok {
		return fresh, nil
	}
	header := string(fresh[:len(fresh)-len(newBody)])
	return []byte(header + markdown.ReplaceManagedBlock(oldBody, blockStart, blockEnd, generated)), nil
}

type reportMeta struct {
	Client            string  `yaml:"client"`
	Industry          string  `yaml:"industry"`
	UseCase           string  `yaml:"use_case"`
	GeneratedOn       string  `yaml:"generated_on"`
	TrackingStartDate string  `yaml:"tracking_start_date,omitempty"`
	TrackingSamples   int     `yaml:"tracking_samples"`
	CombinedValue     float64 `yaml:"combined_value"`
	AnnualProjection  float64 `yaml:"annual_projection"`
}

func frontmatter(report domain.Report) reportMeta {
	return reportMeta{
		Client:            report.Client.Name,
		Industry:          report.Client.Industry,
		UseCase:           report.Client.UseCase,
		GeneratedOn:       report.GeneratedOn,
		TrackingStartDate: report.TrackingStartDate,
		TrackingSamples:   report.TrackingSamples,
		CombinedValue:     report.Impact.Combined,
		AnnualProjection:  report.Impact.AnnualProjection,
	}
}

func renderTables(report domain.Report) string {
	var b strings.Builder
	b.WriteString("## Financial Impact\n\n")
	b.WriteString("| Measure | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Quarterly savings | %s |\n", domain.Money(report.Impact.Savings))
	fmt.Fprintf(&b, "| Revenue impact | %s |\n", domain.Money(report.Impact.Revenue))
	fmt.Fprintf(&b, "| Combined value | %s |\n", domain.Money(report.Impact.Combined))
	fmt.Fprintf(&b, "| Annual projection | %s |\n", domain.Money(report.Impact.AnnualProjection))

	b.WriteString("\n## Before & After\n\n")
	b.WriteString("| Metric | Before | After | Change |\n|---|---|---|---|\n")
	for _, c := range report.Comparisons {
		fmt.Fprintf(&b, "| %s (%s) | %s | %s | %+.1f%% |\n", c.Metric, c.Unit, number(c.Before), number(c.After), c.Change)
	}
	if len(report.Integrations) > 0 {
		fmt.Fprintf(&b, "\nData sources: %s\n", strings.Join(report.Integrations, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
