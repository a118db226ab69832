package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roidash/internal/modules/wizard/domain"
	"roidash/internal/modules/wizard/service"
	apperrors "roidash/internal/platform/errors"
)

// memorySlot mimics a browser-style key-value slot and records every write.
type memorySlot struct {
	mu        sync.Mutex
	payload   []byte
	present   bool
	writes    [][]byte
	removes   int
	saveErr   error
	removeErr error
}

func (m *memorySlot) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.present {
		return nil, apperrors.ErrSlotEmpty
	}
	return append([]byte{}, m.payload...), nil
}

func (m *memorySlot) Save(_ context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.payload = append([]byte{}, payload...)
	m.present = true
	m.writes = append(m.writes, m.payload)
	return nil
}

func (m *memorySlot) Remove(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeErr != nil {
		return m.removeErr
	}
	m.payload = nil
	m.present = false
	m.removes++
	return nil
}

type panickingSlot struct{ memorySlot }

func (p *panickingSlot) Save(context.Context, []byte) error { panic("quota exceeded") }

func intPtr(v int) *int { return &v }

func statusPtr(s domain.IntegrationStatus) *domain.IntegrationStatus { return &s }

func acme() domain.ClientInfo {
	return domain.ClientInfo{Name: "Acme", Industry: "SaaS", Contact: "Jane Doe", UseCase: domain.UseCaseCustomerService, StartDate: "2025-01-01"}
}

func TestNewStoreWithoutPersistedValueUsesDefaults(t *testing.T) {
	t.Parallel()
	store := service.NewStore(context.Background(), &memorySlot{}, nil)
	if diff := cmp.Diff(domain.DefaultState(), store.Snapshot()); diff != "" {
		t.Fatalf("unexpected initial state (-want +got):\n%s", diff)
	}
}

func TestNewStoreWithCorruptValueUsesDefaults(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"{not json", `{"currentStep":"x"}`, `[]`, `{"currentStep":42}`} {
		slot := &memorySlot{payload: []byte(raw), present: true}
		store := service.NewStore(context.Background(), slot, nil)
		assert.Equal(t, domain.DefaultState(), store.Snapshot(), "payload %q", raw)
	}
}

func TestPersistThenLoadRoundTrip(t *testing.T) {
	t.Parallel()
	slot := &memorySlot{}
	store := service.NewStore(context.Background(), slot, nil)
	store.SetClientInfo(acme())
	store.SetSelectedMetrics([]domain.SelectedMetric{{Name: "CSAT", Selected: true}})
	store.AddIntegration(domain.Integration{Platform: "Zendesk", Status: domain.StatusConnecting, MetricsAvailable: 5})
	store.SetBaselineMetrics(domain.BaselineMetrics{TicketVolume: 2847, AvgHandleTime: 47.3, FCRRate: 42.7, CSAT: 3.2, CostPerTicket: 23.4})
	store.AddTrackingData(domain.TrackingMetrics{Date: "2025-02-01"})
	store.SetFinancialImpact(domain.FinancialImpact{Savings: 1, Revenue: 2, Combined: 3})
	store.SetTrackingStartDate("2025-01-01")
	store.SetCurrentStep(4)

	restored := service.NewStore(context.Background(), slot, nil)
	if diff := cmp.Diff(store.Snapshot(), restored.Snapshot()); diff != "" {
		t.Fatalf("restored state differs (-want +got):\n%s", diff)
	}
}

func TestEveryMutationWritesFullStateInOrder(t *testing.T) {
	t.Parallel()
	slot := &memorySlot{}
	store := service.NewStore(context.Background(), slot, nil)
	for step := 1; step <= 5; step++ {
		store.SetCurrentStep(step)
	}
	require.Len(t, slot.writes, 5)
	for i, payload := range slot.writes {
		decoded, err := domain.DecodeState(payload)
		require.NoError(t, err)
		assert.Equal(t, i+1, decoded.CurrentStep)
	}
}

func TestAppendOnlyListsKeepCallOrder(t *testing.T) {
	t.Parallel()
	store := service.NewStore(context.Background(), &memorySlot{}, nil)
	platforms := []string{"Zendesk", "Intercom", "HubSpot Service Hub", "Google Analytics"}
	for _, p := range platforms {
		store.AddIntegration(domain.Integration{Platform: p, Status: domain.StatusConnecting})
	}
	dates := []string{"2025-01-02", "2025-01-01", "2025-01-01"}
	for _, d := range dates {
		store.AddTrackingData(domain.TrackingMetrics{Date: d})
	}

	state := store.Snapshot()
	require.Len(t, state.Integrations, len(platforms))
	for i, p := range platforms {
		assert.Equal(t, p, state.Integrations[i].Platform)
	}
	require.Len(t, state.TrackingData, len(dates))
	for i, d := range dates {
		assert.Equal(t, d, state.TrackingData[i].Date)
	}
}

func TestAddIntegrationRefusesDuplicatePlatform(t *testing.T) {
	t.Parallel()
	store := service.NewStore(context.Background(), &memorySlot{}, nil)
	store.AddIntegration(domain.Integration{Platform: "Zendesk", Status: domain.StatusConnecting, MetricsAvailable: 5})
	store.AddIntegration(domain.Integration{Platform: "Zendesk", Status: domain.StatusConnected, MetricsAvailable: 9})
	state := store.Snapshot()
	require.Len(t, state.Integrations, 1)
	assert.Equal(t, 5, state.Integrations[0].MetricsAvailable)
}

func TestUpdateIntegrationPreservesOtherFields(t *testing.T) {
	t.Parallel()
	store := service.NewStore(context.Background(), &memorySlot{}, nil)
	other := domain.Integration{Platform: "Intercom", Status: domain.StatusConnected, MetricsAvailable: 4, SyncProgress: 100}
	store.AddIntegration(domain.Integration{Platform: "Zendesk", Status: domain.StatusConnecting, MetricsAvailable: 5, SyncProgress: 0})
	store.AddIntegration(other)

	store.UpdateIntegration("Zendesk", domain.IntegrationPatch{SyncProgress: intPtr(42)})

	state := store.Snapshot()
	assert.Equal(t, domain.Integration{Platform: "Zendesk", Status: domain.StatusConnecting, MetricsAvailable: 5, SyncProgress: 42}, state.Integrations[0])
	assert.Equal(t, other, state.Integrations[1])
}

func TestUpdateUnknownIntegrationIsNoop(t *testing.T) {
	t.Parallel()
	slot := &memorySlot{}
	store := service.NewStore(context.Background(), slot, nil)
	store.AddIntegration(domain.Integration{Platform: "Zendesk", Status: domain.StatusConnecting, MetricsAvailable: 5})
	before := store.Snapshot()
	writes := len(slot.writes)

	store.UpdateIntegration("DoesNotExist", domain.IntegrationPatch{SyncProgress: intPtr(10)})

	assert.Equal(t, before, store.Snapshot())
	assert.Len(t, slot.writes, writes)
}

func TestResetClearsAndRemovesSlot(t *testing.T) {
	t.Parallel()
	slot := &memorySlot{}
	store := service.NewStore(context.Background(), slot, nil)
	store.SetClientInfo(acme())
	store.AddIntegration(domain.Integration{Platform: "Zendesk", Status: domain.StatusConnected, SyncProgress: 100})
	store.SetCurrentStep(3)

	store.ResetDashboard()

	assert.Equal(t, domain.DefaultState(), store.Snapshot())
	assert.Equal(t, 1, slot.removes)
	_, err := slot.Load(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrSlotEmpty)

	fresh := service.NewStore(context.Background(), slot, nil)
	assert.Equal(t, domain.DefaultState(), fresh.Snapshot())
}

func TestResetWritesDefaultsWhenRemoveFails(t *testing.T) {
	t.Parallel()
	slot := &memorySlot{removeErr: errors.New("storage locked")}
	store := service.NewStore(context.Background(), slot, nil)
	store.SetClientInfo(acme())
	store.SetCurrentStep(3)

	store.ResetDashboard()

	assert.Equal(t, domain.DefaultState(), store.Snapshot())
	assert.Zero(t, slot.removes)
	fresh := service.NewStore(context.Background(), slot, nil)
	if diff := cmp.Diff(domain.DefaultState(), fresh.Snapshot()); diff != "" {
		t.Fatalf("old session came back after reset (-want +got):\n%s", diff)
	}
}

func TestStoreRefusesValuesThatWouldNotLoadBack(t *testing.T) {
	t.Parallel()
	slot := &memorySlot{}
	store := service.NewStore(context.Background(), slot, nil)
	store.SetClientInfo(acme())
	store.SetCurrentStep(2)

	store.AddIntegration(domain.Integration{Platform: "Zendesk", MetricsAvailable: 5})
	store.AddIntegration(domain.Integration{Status: domain.StatusConnecting})
	store.AddIntegration(domain.Integration{Platform: "Intercom", Status: "paused"})
	store.SetCurrentStep(6)
	store.SetCurrentStep(0)
	assert.Empty(t, store.Snapshot().Integrations)
	assert.Equal(t, 2, store.Snapshot().CurrentStep)

	store.AddIntegration(domain.Integration{Platform: "Zendesk", Status: domain.StatusConnecting, MetricsAvailable: 5})
	store.UpdateIntegration("Zendesk", domain.IntegrationPatch{Status: statusPtr("paused"), SyncProgress: intPtr(60)})
	assert.Equal(t, 0, store.Snapshot().Integrations[0].SyncProgress)

	restored := service.NewStore(context.Background(), slot, nil)
	if diff := cmp.Diff(store.Snapshot(), restored.Snapshot()); diff != "" {
		t.Fatalf("restart lost state (-want +got):\n%s", diff)
	}
	require.NotNil(t, restored.Snapshot().ClientInfo)
	assert.Len(t, restored.Snapshot().Integrations, 1)
}

func TestSettersReplaceWholeValue(t *testing.T) {
	t.Parallel()
	store := service.NewStore(context.Background(), &memorySlot{}, nil)

	store.SetClientInfo(domain.ClientInfo{ID: "old-id", Name: "Old", Industry: "Healthcare", Contact: "A", UseCase: domain.UseCaseSales, StartDate: "2024-01-01"})
	store.SetClientInfo(domain.ClientInfo{Name: "New"})
	assert.Equal(t, domain.ClientInfo{Name: "New"}, *store.Snapshot().ClientInfo)

	store.SetSelectedMetrics([]domain.SelectedMetric{{Name: "a", Selected: true}, {Name: "b", Selected: true}})
	store.SetSelectedMetrics([]domain.SelectedMetric{{Name: "c"}})
	assert.Equal(t, []domain.SelectedMetric{{Name: "c"}}, store.Snapshot().SelectedMetrics)

	store.SetBaselineMetrics(domain.BaselineMetrics{TicketVolume: 1, AvgHandleTime: 2, FCRRate: 3, CSAT: 4, CostPerTicket: 5})
	store.SetBaselineMetrics(domain.BaselineMetrics{CSAT: 1})
	assert.Equal(t, domain.BaselineMetrics{CSAT: 1}, *store.Snapshot().BaselineMetrics)

	store.SetFinancialImpact(domain.FinancialImpact{Savings: 10, Revenue: 20, Combined: 30})
	store.SetFinancialImpact(domain.FinancialImpact{Revenue: 5})
	assert.Equal(t, domain.FinancialImpact{Revenue: 5}, *store.Snapshot().FinancialImpact)

	store.SetCurrentStep(4)
	store.SetCurrentStep(2)
	assert.Equal(t, 2, store.Snapshot().CurrentStep)

	store.SetTrackingStartDate("2025-01-01")
	store.SetTrackingStartDate("2025-03-01")
	assert.Equal(t, "2025-03-01", *store.Snapshot().TrackingStartDate)
}

func TestSnapshotIsIsolatedFromStore(t *testing.T) {
	t.Parallel()
	store := service.NewStore(context.Background(), nil, nil)
	store.AddIntegration(domain.Integration{Platform: "Zendesk", Status: domain.StatusConnecting})
	snap := store.Snapshot()
	snap.Integrations[0].Platform = "Tampered"
	snap.Integrations = append(snap.Integrations, domain.Integration{Platform: "Extra"})
	state := store.Snapshot()
	require.Len(t, state.Integrations, 1)
	assert.Equal(t, "Zendesk", state.Integrations[0].Platform)
}

func TestWriteFailureDoesNotFailMutation(t *testing.T) {
	t.Parallel()
	slot := &memorySlot{saveErr: errors.New("quota exceeded")}
	store := service.NewStore(context.Background(), slot, nil)
	store.SetClientInfo(acme())
	store.SetCurrentStep(2)
	assert.Equal(t, 2, store.Snapshot().CurrentStep)
	assert.Equal(t, "Acme", store.Snapshot().ClientInfo.Name)

	panicky := &panickingSlot{}
	other := service.NewStore(context.Background(), panicky, nil)
	assert.NotPanics(t, func() { other.SetCurrentStep(3) })
	assert.Equal(t, 3, other.Snapshot().CurrentStep)
}

func TestUninitializedStorePanics(t *testing.T) {
	t.Parallel()
	var zero service.Store
	assert.PanicsWithValue(t, apperrors.ErrStoreNotInitialized, func() { zero.Snapshot() })

	var missing *service.Store
	assert.PanicsWithValue(t, apperrors.ErrStoreNotInitialized, func() { missing.SetCurrentStep(2) })
}

func TestEndToEndAcmeScenario(t *testing.T) {
	t.Parallel()
	slot := &memorySlot{}
	store := service.NewStore(context.Background(), slot, nil)

	store.SetClientInfo(acme())
	store.SetCurrentStep(2)
	store.AddIntegration(domain.Integration{Platform: "Zendesk", Status: domain.StatusConnecting, MetricsAvailable: 5, SyncProgress: 0})
	store.UpdateIntegration("Zendesk", domain.IntegrationPatch{Status: statusPtr(domain.StatusConnected), SyncProgress: intPtr(100)})

	state := store.Snapshot()
	assert.Equal(t, "Acme", state.ClientInfo.Name)
	assert.Equal(t, 2, state.CurrentStep)
	assert.Equal(t, []domain.Integration{{Platform: "Zendesk", Status: domain.StatusConnected, MetricsAvailable: 5, SyncProgress: 100}}, state.Integrations)

	restored := service.NewStore(context.Background(), slot, nil)
	assert.Equal(t, state, restored.Snapshot())
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	t.Parallel()
	slot := &memorySlot{}
	store := service.NewStore(context.Background(), slot, nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddTrackingData(domain.TrackingMetrics{Date: "2025-01-01"})
		}()
	}
	wg.Wait()
	assert.Len(t, store.Snapshot().TrackingData, 50)
	last, err := domain.DecodeState(slot.writes[len(slot.writes)-1])
	require.NoError(t, err)
	assert.Len(t, last.TrackingData, 50)
}
