package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"roidash/internal/modules/integration/domain"
	"roidash/internal/modules/integration/dto"
	wizarddto "roidash/internal/modules/wizard/dto"
	wizardin "roidash/internal/modules/wizard/port/in"
)

type SyncSettings struct {
	AuthDelay time.Duration
	Interval  time.Duration
	Step      int
}

// SyncTask simulates authorizing and syncing one platform. It records the
// integration as connecting after the authorization delay, then raises its
// progress on every tick until it is connected at 100.
type SyncTask struct {
	store       wizardin.Store
	option      domain.Option
	settings    SyncSettings
	progression domain.Progression
	logger      *zap.Logger
	resume      bool
	from        int

	mu        sync.Mutex
	cancelled bool
	cancel    context.CancelFunc
	done      chan struct{}
	events    chan dto.SyncEvent
}

// StartSync launches the task. It stops on its own at 100, when ctx ends or
// when Cancel is called.
func StartSync(ctx context.Context, store wizardin.Store, option domain.Option, settings SyncSettings, logger *zap.Logger) *SyncTask {
	t, ctx := newSyncTask(ctx, store, option, settings, logger)
	go t.run(ctx)
	return t
}

// ResumeSync continues an interrupted sync of an integration already in the
// session. It skips authorization and ticks on from progress.
func ResumeSync(ctx context.Context, store wizardin.Store, option domain.Option, settings SyncSettings, progress int, logger *zap.Logger) *SyncTask {
	t, ctx := newSyncTask(ctx, store, option, settings, logger)
	t.resume = true
	t.from = wizarddto.ClampProgress(progress)
	go t.run(ctx)
	return t
}

func newSyncTask(ctx context.Context, store wizardin.Store, option domain.Option, settings SyncSettings, logger *zap.Logger) (*SyncTask, context.Context) {
	if logger == nil {
		logger = zap.NewNop()
	}
	progression := domain.Progression{Step: settings.Step}
	ctx, cancel := context.WithCancel(ctx)
	return &SyncTask{
		store:       store,
		option:      option,
		settings:    settings,
		progression: progression,
		logger:      logger.With(zap.String("platform", option.Name)),
		cancel:      cancel,
		done:        make(chan struct{}),
		events:      make(chan dto.SyncEvent, eventBuffer(progression)),
	}, ctx
}

func eventBuffer(p domain.Progression) int {
	step := max(p.Step, 1)
	return 100/step + 2
}

func (t *SyncTask) Platform() string { return t.option.Name }

// Events carries every mutation the task made. It is closed when the task
// stops.
func (t *SyncTask) Events() <-chan dto.SyncEvent { return t.events }

func (t *SyncTask) Done() <-chan struct{} { return t.done }

// Cancel stops the task. Once Cancel returns the task makes no further
// store mutations.
func (t *SyncTask) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
	t.cancel()
}

func (t *SyncTask) run(ctx context.Context) {
	defer close(t.done)
	defer close(t.events)
	defer t.cancel()

	connecting := wizarddto.StatusConnecting
	if t.resume {
		from := t.from
		if !t.apply(ctx, func() {
			t.store.UpdateIntegration(t.option.Name, wizarddto.IntegrationPatch{Status: &connecting, SyncProgress: &from})
		}, dto.SyncEvent{Platform: t.option.Name, Status: string(connecting), Progress: from}) {
			return
		}
		t.logger.Info("integration sync resumed", zap.Int("progress", from))
	} else if !t.authorize(ctx) {
		return
	}

	ticker := time.NewTicker(t.settings.Interval)
	defer ticker.Stop()
	progress := t.from
	for {
		select {
		case <-ctx.Done():
			t.logger.Debug("sync cancelled", zap.Int("progress", progress))
			return
		case <-ticker.C:
		}
		progress = t.progression.Next(progress)
		if progress >= 100 {
			connected := wizarddto.StatusConnected
			full := 100
			if t.apply(ctx, func() {
				t.store.UpdateIntegration(t.option.Name, wizarddto.IntegrationPatch{Status: &connected, SyncProgress: &full})
			}, dto.SyncEvent{Platform: t.option.Name, Status: string(connected), Progress: full, Done: true}) {
				t.logger.Info("integration synced")
			}
			return
		}
		current := progress
		if !t.apply(ctx, func() {
			t.store.UpdateIntegration(t.option.Name, wizarddto.IntegrationPatch{SyncProgress: &current})
		}, dto.SyncEvent{Platform: t.option.Name, Status: string(connecting), Progress: current}) {
			return
		}
	}
}

// authorize waits out the authorization delay and records the integration
// as connecting at 0.
func (t *SyncTask) authorize(ctx context.Context) bool {
	timer := time.NewTimer(t.settings.AuthDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		t.logger.Debug("sync cancelled before authorization")
		return false
	case <-timer.C:
	}
	connecting := wizarddto.StatusConnecting
	if !t.apply(ctx, func() {
		t.store.AddIntegration(wizarddto.Integration{
			Platform:         t.option.Name,
			Status:           connecting,
			MetricsAvailable: t.option.MetricsCount,
			SyncProgress:     0,
		})
	}, dto.SyncEvent{Platform: t.option.Name, Status: string(connecting)}) {
		return false
	}
	t.logger.Info("integration authorized")
	return true
}

// apply runs mutate unless the task was cancelled or ctx has ended, then
// publishes event.
func (t *SyncTask) apply(ctx context.Context, mutate func(), event dto.SyncEvent) bool {
	t.mu.Lock()
	if t.cancelled || ctx.Err() != nil {
		t.mu.Unlock()
		return false
	}
	mutate()
	t.mu.Unlock()
	select {
	case t.events <- event:
	default:
		t.logger.Debug("sync event dropped", zap.Int("progress", event.Progress))
	}
	return true
}
