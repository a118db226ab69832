package domain

import "math"

// BaselineWindowDays is the span the baseline ticket volume was collected over.
const BaselineWindowDays = 90

// Annualization turns the quarterly combined value into a yearly projection.
const Annualization = 4

type Client struct {
	Name      string `json:"name" yaml:"name"`
	Industry  string `json:"industry" yaml:"industry"`
	Contact   string `json:"contact" yaml:"contact"`
	UseCase   string `json:"use_case" yaml:"use_case"`
	StartDate string `json:"start_date" yaml:"start_date"`
}

// Comparison is one KPI before and after the implementation.
type Comparison struct {
	Metric        string  `json:"metric" yaml:"metric"`
	Unit          string  `json:"unit" yaml:"unit"`
	Before        float64 `json:"before" yaml:"before"`
	After         float64 `json:"after" yaml:"after"`
	Change        float64 `json:"change_pct" yaml:"change_pct"`
	LowerIsBetter bool    `json:"lower_is_better" yaml:"lower_is_better"`
}

// Improved reports whether the change went the desired way.
func (c Comparison) Improved() bool {
	if c.LowerIsBetter {
		return c.Change < 0
	}
	return c.Change > 0
}

type Impact struct {
	Savings          float64 `json:"savings" yaml:"savings"`
	Revenue          float64 `json:"revenue" yaml:"revenue"`
	Combined         float64 `json:"combined" yaml:"combined"`
	AnnualProjection float64 `json:"annual_projection" yaml:"annual_projection"`
}

type Report struct {
	Client            Client       `json:"client" yaml:"client"`
	GeneratedOn       string       `json:"generated_on" yaml:"generated_on"`
	TrackingStartDate string       `json:"tracking_start_date,omitempty" yaml:"tracking_start_date,omitempty"`
	TrackingSamples   int          `json:"tracking_samples" yaml:"tracking_samples"`
	Integrations      []string     `json:"integrations" yaml:"integrations"`
	Comparisons       []Comparison `json:"comparisons" yaml:"comparisons"`
	Impact            Impact       `json:"impact" yaml:"impact"`
}

// PercentChange is (after-before)/before*100 rounded to one decimal. A zero
// baseline yields zero.
func PercentChange(before, after float64) float64 {
	if before == 0 {
		return 0
	}
	pct := (after - before) / before * 100
	// Settle float noise first so exact halves round away from zero.
	pct = math.Round(pct*1e6) / 1e6
	return Round1(pct)
}

func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func NewComparison(metric, unit string, before, after float64, lowerIsBetter bool) Comparison {
	return Comparison{
		Metric:        metric,
		Unit:          unit,
		Before:        before,
		After:         after,
		Change:        PercentChange(before, after),
		LowerIsBetter: lowerIsBetter,
	}
}
