package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"roidash/internal/modules/wizard/domain"
	wizardout "roidash/internal/modules/wizard/port/out"
	apperrors "roidash/internal/platform/errors"
)

// Store owns the wizard session. Every mutation builds a new aggregate from a
// copy of the current one, swaps it in and writes the full state to the slot
// before releasing the lock, so slot writes land in mutation order.
type Store struct {
	mu     sync.RWMutex
	slot   wizardout.Slot
	logger *zap.Logger
	state  domain.SessionState
	ready  bool
}

// NewStore restores the session from slot. A missing, unreadable or invalid
// payload yields the default state; the failure is only logged.
func NewStore(ctx context.Context, slot wizardout.Slot, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{slot: slot, logger: logger, ready: true}
	s.state = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) domain.SessionState {
	if s.slot == nil {
		return domain.DefaultState()
	}
	payload, err := s.slot.Load(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrSlotEmpty) {
			s.logger.Warn("state slot unreadable, starting fresh", zap.String("key", domain.SlotKey), zap.Error(err))
		}
		return domain.DefaultState()
	}
	state, err := domain.DecodeState(payload)
	if err != nil {
		s.logger.Warn("persisted state discarded", zap.String("key", domain.SlotKey), zap.Error(err))
		return domain.DefaultState()
	}
	s.logger.Debug("session restored", zap.Int("step", state.CurrentStep))
	return state
}

func (s *Store) mustReady() {
	if s == nil || !s.ready {
		panic(apperrors.ErrStoreNotInitialized)
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() domain.SessionState {
	s.mustReady()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) SetClientInfo(info domain.ClientInfo) {
	s.mutate("set_client_info", func(next *domain.SessionState) bool {
		next.ClientInfo = &info
		return true
	})
}

func (s *Store) SetSelectedMetrics(metrics []domain.SelectedMetric) {
	replaced := append([]domain.SelectedMetric{}, metrics...)
	s.mutate("set_selected_metrics", func(next *domain.SessionState) bool {
		next.SelectedMetrics = replaced
		return true
	})
}

// AddIntegration appends integration. Entries without a platform or with an
// unknown status are refused, as is a platform that is already present.
func (s *Store) AddIntegration(integration domain.Integration) {
	integration.SyncProgress = domain.ClampProgress(integration.SyncProgress)
	s.mutate("add_integration", func(next *domain.SessionState) bool {
		if err := integration.Validate(); err != nil {
			s.logger.Warn("integration refused", zap.String("platform", integration.Platform), zap.Error(err))
			return false
		}
		if next.FindIntegration(integration.Platform) >= 0 {
			s.logger.Warn("integration already tracked", zap.String("platform", integration.Platform))
			return false
		}
		next.Integrations = append(next.Integrations, integration)
		return true
	})
}

// UpdateIntegration merges patch into the entry keyed by platform. Unknown
// platforms and patches with an unknown status are ignored.
func (s *Store) UpdateIntegration(platform string, patch domain.IntegrationPatch) {
	s.mutate("update_integration", func(next *domain.SessionState) bool {
		if err := patch.Validate(); err != nil {
			s.logger.Warn("integration update refused", zap.String("platform", platform), zap.Error(err))
			return false
		}
		idx := next.FindIntegration(platform)
		if idx < 0 {
			s.logger.Debug("update for unknown integration ignored", zap.String("platform", platform))
			return false
		}
		next.Integrations[idx] = patch.Apply(next.Integrations[idx])
		return true
	})
}

func (s *Store) SetBaselineMetrics(metrics domain.BaselineMetrics) {
	s.mutate("set_baseline_metrics", func(next *domain.SessionState) bool {
		next.BaselineMetrics = &metrics
		return true
	})
}

func (s *Store) AddTrackingData(sample domain.TrackingMetrics) {
	s.mutate("add_tracking_data", func(next *domain.SessionState) bool {
		next.TrackingData = append(next.TrackingData, sample)
		return true
	})
}

func (s *Store) SetFinancialImpact(impact domain.FinancialImpact) {
	s.mutate("set_financial_impact", func(next *domain.SessionState) bool {
		next.FinancialImpact = &impact
		return true
	})
}

// SetCurrentStep ignores steps outside 1..5.
func (s *Store) SetCurrentStep(step int) {
	s.mutate("set_current_step", func(next *domain.SessionState) bool {
		if err := domain.ValidateStep(step); err != nil {
			s.logger.Warn("step refused", zap.Error(err))
			return false
		}
		next.CurrentStep = step
		return true
	})
}

func (s *Store) SetTrackingStartDate(date string) {
	s.mutate("set_tracking_start_date", func(next *domain.SessionState) bool {
		next.TrackingStartDate = &date
		return true
	})
}

// ResetDashboard restores the defaults and deletes the persisted copy rather
// than overwriting it. When the slot cannot delete, the defaults are written
// instead so the next start does not bring the old session back.
func (s *Store) ResetDashboard() {
	s.mustReady()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.DefaultState()
	if s.slot == nil {
		return
	}
	if err := s.slot.Remove(context.Background()); err != nil {
		s.logger.Error("state slot remove failed, writing defaults", zap.String("key", domain.SlotKey), zap.Error(err))
		s.commit("reset_dashboard")
		return
	}
	s.logger.Info("session reset")
}

// mutate applies fn to a copy of the state. When fn reports a change the copy
// replaces the current state and is persisted.
func (s *Store) mutate(op string, fn func(next *domain.SessionState) bool) {
	s.mustReady()
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.Clone()
	if !fn(&next) {
		return
	}
	s.state = next
	s.commit(op)
}

// commit writes the whole state. Failures leave the in-memory state
// authoritative and are not reported to the caller.
func (s *Store) commit(op string) {
	if s.slot == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("state slot write panicked", zap.String("op", op), zap.Any("panic", r))
		}
	}()
	payload, err := domain.EncodeState(s.state)
	if err != nil {
		s.logger.Error("encode state failed", zap.String("op", op), zap.Error(err))
		return
	}
	if err := s.slot.Save(context.Background(), payload); err != nil {
		s.logger.Error("state slot write failed", zap.String("op", op), zap.String("key", domain.SlotKey), zap.Error(err))
		return
	}
	s.logger.Debug("state committed", zap.String("op", op), zap.Int("bytes", len(payload)))
}
