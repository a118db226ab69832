package in

import (
	"context"

	"roidash/internal/modules/wizard/dto"
	wizardin "roidash/internal/modules/wizard/port/in"
)

type CLIHandler struct {
	usecase wizardin.Usecase
}

func NewCLIHandler(usecase wizardin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) State(ctx context.Context) dto.SessionState {
	return h.usecase.State(ctx)
}

func (h CLIHandler) SuggestedMetrics(useCase string) ([]string, error) {
	return h.usecase.SuggestedMetrics(useCase)
}

func (h CLIHandler) Setup(ctx context.Context, input dto.SetupInput) (dto.SetupOutput, error) {
	return h.usecase.CompleteSetup(ctx, input)
}

func (h CLIHandler) CanProceed(ctx context.Context) bool {
	return h.usecase.CanProceedFromIntegrations(ctx)
}

func (h CLIHandler) ProceedToBaseline(ctx context.Context) (dto.StepOutput, error) {
	return h.usecase.ProceedToBaseline(ctx)
}

func (h CLIHandler) Baseline() dto.BaselineMetrics {
	return h.usecase.BaselineSnapshot()
}

func (h CLIHandler) StartTracking(ctx context.Context) (dto.StepOutput, error) {
	return h.usecase.StartTracking(ctx)
}

func (h CLIHandler) AddTracking(ctx context.Context, date string) (dto.TrackingMetrics, error) {
	return h.usecase.RecordTrackingSample(ctx, date)
}

func (h CLIHandler) ViewReport(ctx context.Context) (dto.StepOutput, error) {
	return h.usecase.ViewReport(ctx)
}

func (h CLIHandler) GoTo(ctx context.Context, step int) (dto.StepOutput, error) {
	return h.usecase.GoTo(ctx, step)
}

func (h CLIHandler) Reset(ctx context.Context) {
	h.usecase.Reset(ctx)
}
