package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"roidash/internal/modules/wizard/domain"
	"roidash/internal/modules/wizard/dto"
	wizardin "roidash/internal/modules/wizard/port/in"
	"roidash/internal/platform/clock"
	apperrors "roidash/internal/platform/errors"
	"roidash/internal/platform/id"
)

type Interactor struct {
	store  wizardin.Store
	clock  clock.Clock
	ids    id.Generator
	logger *zap.Logger
}

func NewInteractor(store wizardin.Store, clk clock.Clock, ids id.Generator, logger *zap.Logger) wizardin.Usecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactor{store: store, clock: clk, ids: ids, logger: logger}
}

func (i *Interactor) State(_ context.Context) dto.SessionState {
	return i.store.Snapshot()
}

func (i *Interactor) SuggestedMetrics(useCase string) ([]string, error) {
	u := domain.UseCase(useCase)
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return domain.SuggestedMetrics(u), nil
}

// CompleteSetup records the client and its KPIs and moves the wizard to the
// integrations step.
func (i *Interactor) CompleteSetup(_ context.Context, input dto.SetupInput) (dto.SetupOutput, error) {
	info := domain.ClientInfo{
		Name:      strings.TrimSpace(input.Name),
		Industry:  strings.TrimSpace(input.Industry),
		Contact:   strings.TrimSpace(input.Contact),
		UseCase:   domain.UseCase(strings.TrimSpace(input.UseCase)),
		StartDate: strings.TrimSpace(input.StartDate),
	}
	if err := info.Validate(); err != nil {
		return dto.SetupOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	metrics := uniqueNonEmpty(input.SelectedMetrics)
	if len(metrics) < domain.MinSelectedMetrics {
		return dto.SetupOutput{}, fmt.Errorf("%w: select at least %d metrics, got %d", apperrors.ErrInvalidInput, domain.MinSelectedMetrics, len(metrics))
	}
	info.ID = i.ids.New()

	selected := make([]domain.SelectedMetric, 0, len(metrics))
	for _, name := range metrics {
		selected = append(selected, domain.SelectedMetric{Name: name, Selected: true})
	}
	i.store.SetClientInfo(info)
	i.store.SetSelectedMetrics(selected)
	step := i.advance(2)
	i.logger.Info("client setup completed",
		zap.String("client", info.Name),
		zap.String("use_case", string(info.UseCase)),
		zap.Int("metrics", len(selected)))
	return dto.SetupOutput{ClientID: info.ID, CurrentStep: step}, nil
}

func (i *Interactor) CanProceedFromIntegrations(_ context.Context) bool {
	return i.store.Snapshot().ReadyForBaseline()
}

func (i *Interactor) ProceedToBaseline(ctx context.Context) (dto.StepOutput, error) {
	state := i.store.Snapshot()
	if state.ClientInfo == nil {
		return dto.StepOutput{}, apperrors.ErrSetupRequired
	}
	if !state.ReadyForBaseline() {
		return dto.StepOutput{}, fmt.Errorf("%w: connect an integration and sync at least %d%%", apperrors.ErrStepPrerequisite, domain.MinSyncProgressToProceed)
	}
	return dto.StepOutput{Step: i.advance(3)}, nil
}

func (i *Interactor) BaselineSnapshot() dto.BaselineMetrics {
	return domain.SampleBaseline()
}

// StartTracking stores the baseline, fixes the tracking start date and moves
// on to live tracking.
func (i *Interactor) StartTracking(_ context.Context) (dto.StepOutput, error) {
	state := i.store.Snapshot()
	if state.ClientInfo == nil {
		return dto.StepOutput{}, apperrors.ErrSetupRequired
	}
	i.store.SetBaselineMetrics(domain.SampleBaseline())
	start := state.ClientInfo.StartDate
	if start == "" {
		start = domain.DefaultTrackingStartDate
	}
	i.store.SetTrackingStartDate(start)
	step := i.advance(4)
	i.logger.Info("tracking started", zap.String("start_date", start))
	return dto.StepOutput{Step: step}, nil
}

// RecordTrackingSample appends one dated sample. An empty date means today.
func (i *Interactor) RecordTrackingSample(_ context.Context, date string) (dto.TrackingMetrics, error) {
	state := i.store.Snapshot()
	if state.ClientInfo == nil {
		return dto.TrackingMetrics{}, apperrors.ErrSetupRequired
	}
	if state.BaselineMetrics == nil {
		return dto.TrackingMetrics{}, fmt.Errorf("%w: capture the baseline before tracking", apperrors.ErrStepPrerequisite)
	}
	if date == "" {
		date = clock.Today(i.clock)
	}
	if !domain.ValidDate(date) {
		return dto.TrackingMetrics{}, fmt.Errorf("%w: date must be YYYY-MM-DD: %q", apperrors.ErrInvalidInput, date)
	}
	sample := domain.TrackingMetrics{BaselineMetrics: domain.SampleCurrent(), Date: date}
	i.store.AddTrackingData(sample)
	return sample, nil
}

func (i *Interactor) ViewReport(_ context.Context) (dto.StepOutput, error) {
	state := i.store.Snapshot()
	if state.ClientInfo == nil {
		return dto.StepOutput{}, apperrors.ErrSetupRequired
	}
	i.store.SetFinancialImpact(domain.ProjectedImpact())
	return dto.StepOutput{Step: i.advance(5)}, nil
}

// GoTo moves the wizard to step. Going back to an earlier screen is allowed
// for viewing but never lowers the recorded progress.
func (i *Interactor) GoTo(_ context.Context, step int) (dto.StepOutput, error) {
	if step < domain.FirstStep || step > domain.LastStep {
		return dto.StepOutput{}, fmt.Errorf("%w: step must be within %d..%d", apperrors.ErrInvalidInput, domain.FirstStep, domain.LastStep)
	}
	state := i.store.Snapshot()
	if step > domain.FirstStep && state.ClientInfo == nil {
		return dto.StepOutput{}, apperrors.ErrSetupRequired
	}
	if step > state.CurrentStep {
		return dto.StepOutput{}, fmt.Errorf("%w: step %d is not unlocked yet", apperrors.ErrStepPrerequisite, step)
	}
	return dto.StepOutput{Step: step}, nil
}

func (i *Interactor) Reset(_ context.Context) {
	i.store.ResetDashboard()
	i.logger.Info("dashboard reset")
}

// advance records step as reached unless the wizard is already past it, and
// returns step as the screen to show.
func (i *Interactor) advance(step int) int {
	if step > i.store.Snapshot().CurrentStep {
		i.store.SetCurrentStep(step)
	}
	return step
}

func uniqueNonEmpty(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

