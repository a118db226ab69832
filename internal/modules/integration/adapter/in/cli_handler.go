package in

import (
	"context"

	"roidash/internal/modules/integration/dto"
	integrationin "roidash/internal/modules/integration/port/in"
)

type CLIHandler struct {
	usecase integrationin.Usecase
}

func NewCLIHandler(usecase integrationin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Available(ctx context.Context) ([]dto.OptionInfo, error) {
	return h.usecase.Available(ctx)
}

func (h CLIHandler) Connect(ctx context.Context, optionID string) (integrationin.SyncTask, error) {
	return h.usecase.Connect(ctx, optionID)
}

// ConnectAndWait runs a sync to completion, reporting each event to onEvent.
func (h CLIHandler) ConnectAndWait(ctx context.Context, optionID string, onEvent func(dto.SyncEvent)) error {
	task, err := h.usecase.Connect(ctx, optionID)
	if err != nil {
		return err
	}
	defer task.Cancel()
	for event := range task.Events() {
		if onEvent != nil {
			onEvent(event)
		}
	}
	<-task.Done()
	return ctx.Err()
}

func (h CLIHandler) ListConnectors(ctx context.Context) ([]dto.ConnectorInfo, error) {
	return h.usecase.ListConnectors(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}
