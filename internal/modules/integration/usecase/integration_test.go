package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"roidash/internal/modules/integration/service"
	"roidash/internal/modules/integration/usecase"
	wizarddomain "roidash/internal/modules/wizard/domain"
	wizardservice "roidash/internal/modules/wizard/service"
	apperrors "roidash/internal/platform/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fast = service.SyncSettings{Interval: time.Millisecond, Step: 25}

func newStore(useCase wizarddomain.UseCase) *wizardservice.Store {
	store := wizardservice.NewStore(context.Background(), nil, nil)
	if useCase != "" {
		store.SetClientInfo(wizarddomain.ClientInfo{Name: "Acme", Industry: "SaaS", Contact: "Jane Doe", UseCase: useCase, StartDate: "2025-01-01"})
	}
	return store
}

func TestAvailableReflectsIntegrationStatus(t *testing.T) {
	t.Parallel()
	store := newStore(wizarddomain.UseCaseCustomerService)
	store.AddIntegration(wizarddomain.Integration{Platform: "Intercom", Status: wizarddomain.StatusConnecting, MetricsAvailable: 4, SyncProgress: 40})
	uc := usecase.NewInteractor(store, nil, fast, nil)

	options, err := uc.Available(context.Background())
	require.NoError(t, err)
	require.Len(t, options, 4)
	assert.Equal(t, "zendesk", options[0].ID)
	assert.Equal(t, "not_connected", options[0].Status)
	assert.Equal(t, "intercom", options[1].ID)
	assert.Equal(t, "connecting", options[1].Status)
	assert.Equal(t, 40, options[1].SyncProgress)
}

func TestAvailableWithoutCatalog(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(newStore(wizarddomain.UseCaseOperations), nil, fast, nil)
	options, err := uc.Available(context.Background())
	require.NoError(t, err)
	assert.Empty(t, options)
}

func TestConnectGuards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := usecase.NewInteractor(newStore(""), nil, fast, nil).Connect(ctx, "zendesk")
	assert.ErrorIs(t, err, apperrors.ErrSetupRequired)

	store := newStore(wizarddomain.UseCaseSales)
	uc := usecase.NewInteractor(store, nil, fast, nil)
	_, err = uc.Connect(ctx, "zendesk")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "zendesk is not offered for sales: %v", err)

	store.AddIntegration(wizarddomain.Integration{Platform: "Salesforce", Status: wizarddomain.StatusConnected, MetricsAvailable: 5, SyncProgress: 100})
	_, err = uc.Connect(ctx, "salesforce")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyConnected)
}

func TestConnectRefusesSecondTaskWhileAuthorizing(t *testing.T) {
	t.Parallel()
	store := newStore(wizarddomain.UseCaseCustomerService)
	uc := usecase.NewInteractor(store, nil, service.SyncSettings{AuthDelay: time.Hour, Interval: time.Millisecond, Step: 10}, nil)

	task, err := uc.Connect(context.Background(), "zendesk")
	require.NoError(t, err)
	_, err = uc.Connect(context.Background(), "zendesk")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyConnected)

	task.Cancel()
	<-task.Done()
	assert.Empty(t, store.Snapshot().Integrations)
}

func TestConnectSyncsToCompletion(t *testing.T) {
	t.Parallel()
	store := newStore(wizarddomain.UseCaseMarketing)
	uc := usecase.NewInteractor(store, nil, fast, nil)

	task, err := uc.Connect(context.Background(), "hubspot_marketing")
	require.NoError(t, err)
	assert.Equal(t, "HubSpot Marketing", task.Platform())

	var last int
	for event := range task.Events() {
		last = event.Progress
	}
	<-task.Done()
	assert.Equal(t, 100, last)

	state := store.Snapshot()
	require.Len(t, state.Integrations, 1)
	assert.Equal(t, wizarddomain.StatusConnected, state.Integrations[0].Status)
	assert.Equal(t, 5, state.Integrations[0].MetricsAvailable)
}

func TestConnectResumesInterruptedSync(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newStore(wizarddomain.UseCaseSales)

	slow := usecase.NewInteractor(store, nil, service.SyncSettings{Interval: time.Hour, Step: 25}, nil)
	task, err := slow.Connect(ctx, "salesforce")
	require.NoError(t, err)
	first := <-task.Events()
	assert.Equal(t, "connecting", first.Status)
	task.Cancel()
	<-task.Done()
	require.Len(t, store.Snapshot().Integrations, 1)
	assert.Equal(t, wizarddomain.StatusConnecting, store.Snapshot().Integrations[0].Status)

	uc := usecase.NewInteractor(store, nil, fast, nil)
	task, err = uc.Connect(ctx, "salesforce")
	require.NoError(t, err)
	for range task.Events() {
	}
	<-task.Done()

	assert.Equal(t, []wizarddomain.Integration{{Platform: "Salesforce", Status: wizarddomain.StatusConnected, MetricsAvailable: 5, SyncProgress: 100}}, store.Snapshot().Integrations)
	_, err = uc.Connect(ctx, "salesforce")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyConnected)
}

func TestConnectResumesFromStoredProgress(t *testing.T) {
	t.Parallel()
	store := newStore(wizarddomain.UseCaseSales)
	store.AddIntegration(wizarddomain.Integration{Platform: "Salesforce", Status: wizarddomain.StatusConnecting, MetricsAvailable: 5, SyncProgress: 50})
	uc := usecase.NewInteractor(store, nil, fast, nil)

	task, err := uc.Connect(context.Background(), "salesforce")
	require.NoError(t, err)
	var progress []int
	for event := range task.Events() {
		progress = append(progress, event.Progress)
	}
	<-task.Done()

	assert.Equal(t, []int{50, 75, 100}, progress)
	require.Len(t, store.Snapshot().Integrations, 1)
	assert.Equal(t, wizarddomain.StatusConnected, store.Snapshot().Integrations[0].Status)
}

func TestConnectorsAbsent(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(newStore(""), nil, fast, nil)
	connectors, err := uc.ListConnectors(context.Background())
	require.NoError(t, err)
	assert.Empty(t, connectors)
	results, err := uc.Doctor(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
}
