package usecase

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"roidash/internal/modules/integration/domain"
	"roidash/internal/modules/integration/dto"
	integrationin "roidash/internal/modules/integration/port/in"
	"roidash/internal/modules/integration/service"
	wizarddto "roidash/internal/modules/wizard/dto"
	wizardin "roidash/internal/modules/wizard/port/in"
	apperrors "roidash/internal/platform/errors"
)

type Interactor struct {
	store      wizardin.Store
	connectors *service.ConnectorService
	settings   service.SyncSettings
	logger     *zap.Logger

	mu       sync.Mutex
	inFlight map[string]*service.SyncTask
}

// NewInteractor wires the integrations step. connectors may be nil, in which
// case only the built-in catalog is offered.
func NewInteractor(store wizardin.Store, connectors *service.ConnectorService, settings service.SyncSettings, logger *zap.Logger) integrationin.Usecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactor{
		store:      store,
		connectors: connectors,
		settings:   settings,
		logger:     logger,
		inFlight:   map[string]*service.SyncTask{},
	}
}

func (i *Interactor) Available(ctx context.Context) ([]dto.OptionInfo, error) {
	state := i.store.Snapshot()
	options, err := i.options(ctx, state)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OptionInfo, 0, len(options))
	for _, option := range options {
		info := dto.OptionInfo{
			ID:           option.ID,
			Name:         option.Name,
			Description:  option.Description,
			MetricsCount: option.MetricsCount,
			Recommended:  option.Recommended,
			Connector:    option.Connector,
			Status:       string(wizarddto.StatusNotConnected),
		}
		if idx := state.FindIntegration(option.Name); idx >= 0 {
			info.Status = string(state.Integrations[idx].Status)
			info.SyncProgress = state.Integrations[idx].SyncProgress
		}
		out = append(out, info)
	}
	return out, nil
}

// Connect starts syncing optionID. An entry left connecting by an interrupted
// task is resumed from its stored progress. The task lives until it completes,
// ctx ends or the caller cancels it.
func (i *Interactor) Connect(ctx context.Context, optionID string) (integrationin.SyncTask, error) {
	state := i.store.Snapshot()
	if state.ClientInfo == nil {
		return nil, apperrors.ErrSetupRequired
	}
	options, err := i.options(ctx, state)
	if err != nil {
		return nil, err
	}
	var option *domain.Option
	for idx := range options {
		if options[idx].ID == optionID {
			option = &options[idx]
			break
		}
	}
	if option == nil {
		return nil, fmt.Errorf("%w: integration %q", apperrors.ErrNotFound, optionID)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if running, ok := i.inFlight[option.Name]; ok {
		select {
		case <-running.Done():
			delete(i.inFlight, option.Name)
		default:
			return nil, fmt.Errorf("%w: %s is already syncing", apperrors.ErrAlreadyConnected, option.Name)
		}
	}

	var task *service.SyncTask
	current := i.store.Snapshot()
	if idx := current.FindIntegration(option.Name); idx >= 0 {
		existing := current.Integrations[idx]
		if existing.Status == wizarddto.StatusConnected {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAlreadyConnected, option.Name)
		}
		task = service.ResumeSync(ctx, i.store, *option, i.settings, existing.SyncProgress, i.logger)
		i.logger.Info("integration sync resumed", zap.String("option", option.ID), zap.Int("progress", existing.SyncProgress))
	} else {
		task = service.StartSync(ctx, i.store, *option, i.settings, i.logger)
		i.logger.Info("integration connect requested", zap.String("option", option.ID), zap.String("connector", option.Connector))
	}
	i.inFlight[option.Name] = task
	return task, nil
}

func (i *Interactor) ListConnectors(ctx context.Context) ([]dto.ConnectorInfo, error) {
	if i.connectors == nil {
		return []dto.ConnectorInfo{}, nil
	}
	return i.connectors.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	if i.connectors == nil {
		return []dto.DoctorResult{}, nil
	}
	return i.connectors.Doctor(ctx, useCaseOf(i.store.Snapshot()))
}

func (i *Interactor) options(ctx context.Context, state wizarddto.SessionState) ([]domain.Option, error) {
	useCase := useCaseOf(state)
	builtin := domain.BuiltinOptions(wizarddto.UseCase(useCase))
	if i.connectors == nil || useCase == "" {
		return domain.MergeOptions(builtin, nil), nil
	}
	extra, err := i.connectors.Options(ctx, useCase)
	if err != nil {
		return nil, fmt.Errorf("load connectors: %w", err)
	}
	return domain.MergeOptions(builtin, extra), nil
}

func useCaseOf(state wizarddto.SessionState) string {
	if state.ClientInfo == nil {
		return ""
	}
	return string(state.ClientInfo.UseCase)
}
