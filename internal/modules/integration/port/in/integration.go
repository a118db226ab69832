package in

import (
	"context"

	"roidash/internal/modules/integration/dto"
)

// SyncTask is a running connection simulation for one platform.
type SyncTask interface {
	Platform() string
	Events() <-chan dto.SyncEvent
	Done() <-chan struct{}
	Cancel()
}

type Usecase interface {
	Available(ctx context.Context) ([]dto.OptionInfo, error)
	Connect(ctx context.Context, optionID string) (SyncTask, error)
	ListConnectors(ctx context.Context) ([]dto.ConnectorInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
}
