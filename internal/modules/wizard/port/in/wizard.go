package in

import (
	"context"

	"roidash/internal/modules/wizard/dto"
)

// Store is the session state contract shared by every wizard screen.
type Store interface {
	Snapshot() dto.SessionState
	SetClientInfo(info dto.ClientInfo)
	SetSelectedMetrics(metrics []dto.SelectedMetric)
	AddIntegration(integration dto.Integration)
	UpdateIntegration(platform string, patch dto.IntegrationPatch)
	SetBaselineMetrics(metrics dto.BaselineMetrics)
	AddTrackingData(sample dto.TrackingMetrics)
	SetFinancialImpact(impact dto.FinancialImpact)
	SetCurrentStep(step int)
	SetTrackingStartDate(date string)
	ResetDashboard()
}

// Usecase is the step-level flow built on top of Store.
type Usecase interface {
	State(ctx context.Context) dto.SessionState
	SuggestedMetrics(useCase string) ([]string, error)
	CompleteSetup(ctx context.Context, input dto.SetupInput) (dto.SetupOutput, error)
	CanProceedFromIntegrations(ctx context.Context) bool
	ProceedToBaseline(ctx context.Context) (dto.StepOutput, error)
	BaselineSnapshot() dto.BaselineMetrics
	StartTracking(ctx context.Context) (dto.StepOutput, error)
	RecordTrackingSample(ctx context.Context, date string) (dto.TrackingMetrics, error)
	ViewReport(ctx context.Context) (dto.StepOutput, error)
	GoTo(ctx context.Context, step int) (dto.StepOutput, error)
	Reset(ctx context.Context)
}
