// Package dto exposes the wizard's session types to other modules without
// letting them reach into the domain package.
package dto

import "roidash/internal/modules/wizard/domain"

type (
	SessionState      = domain.SessionState
	ClientInfo        = domain.ClientInfo
	SelectedMetric    = domain.SelectedMetric
	Integration       = domain.Integration
	IntegrationPatch  = domain.IntegrationPatch
	IntegrationStatus = domain.IntegrationStatus
	BaselineMetrics   = domain.BaselineMetrics
	TrackingMetrics   = domain.TrackingMetrics
	FinancialImpact   = domain.FinancialImpact
	UseCase           = domain.UseCase
)

const (
	UseCaseCustomerService = domain.UseCaseCustomerService
	UseCaseSales           = domain.UseCaseSales
	UseCaseMarketing       = domain.UseCaseMarketing
	UseCaseFinance         = domain.UseCaseFinance
	UseCaseOperations      = domain.UseCaseOperations
)

const (
	StatusNotConnected = domain.StatusNotConnected
	StatusConnecting   = domain.StatusConnecting
	StatusConnected    = domain.StatusConnected
)

// ClampProgress bounds a sync progress value to 0..100.
func ClampProgress(p int) int {
	return domain.ClampProgress(p)
}

// UseCaseTitle labels u for display, falling back to the raw value.
func UseCaseTitle(u UseCase) string {
	if title, ok := domain.UseCaseTitles[u]; ok {
		return title
	}
	return string(u)
}

// Industries lists the industries offered by the setup form.
func Industries() []string {
	return append([]string{}, domain.Industries...)
}

// UseCases lists every supported use case in display order.
func UseCases() []UseCase {
	return append([]UseCase{}, domain.UseCases...)
}

// SuggestedMetrics returns the KPI suggestions for u.
func SuggestedMetrics(u UseCase) []string {
	return domain.SuggestedMetrics(u)
}

// PreselectedMetrics returns the suggestions for u that start out ticked.
func PreselectedMetrics(u UseCase) []string {
	return domain.PreselectedMetrics(u)
}

// MinSelectedMetrics is the fewest KPIs a setup may carry.
const MinSelectedMetrics = domain.MinSelectedMetrics

// ValidDate reports whether date is a YYYY-MM-DD string.
func ValidDate(date string) bool {
	return domain.ValidDate(date)
}

// SampleBaseline is the illustrative pre-implementation snapshot.
func SampleBaseline() BaselineMetrics {
	return domain.SampleBaseline()
}

// SampleCurrent is the illustrative post-implementation performance.
func SampleCurrent() BaselineMetrics {
	return domain.SampleCurrent()
}

// ProjectedImpact is the illustrative quarterly financial impact.
func ProjectedImpact() FinancialImpact {
	return domain.ProjectedImpact()
}

type SetupInput struct {
	Name            string
	Industry        string
	Contact         string
	UseCase         string
	StartDate       string
	SelectedMetrics []string
}

type SetupOutput struct {
	ClientID    string
	CurrentStep int
}

// StepOutput names the step the caller should show next.
type StepOutput struct {
	Step int
}
