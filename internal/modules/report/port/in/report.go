package in

import (
	"context"

	"roidash/internal/modules/report/dto"
)

type Usecase interface {
	Build(ctx context.Context) (dto.Report, error)
	Export(ctx context.Context, format, dir string) (dto.ExportOutput, error)
	Share(ctx context.Context, recipient string) (dto.ShareOutput, error)
}
