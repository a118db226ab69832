package in

import (
	"context"

	"roidash/internal/modules/report/dto"
	reportin "roidash/internal/modules/report/port/in"
)

type CLIHandler struct {
	usecase reportin.Usecase
}

func NewCLIHandler(usecase reportin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (dto.Report, error) {
	return h.usecase.Build(ctx)
}

func (h CLIHandler) Export(ctx context.Context, format, dir string) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx, format, dir)
}

func (h CLIHandler) Share(ctx context.Context, recipient string) (dto.ShareOutput, error) {
	return h.usecase.Share(ctx, recipient)
}
