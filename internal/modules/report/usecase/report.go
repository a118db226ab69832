package usecase

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"roidash/internal/modules/report/dto"
	reportin "roidash/internal/modules/report/port/in"
	reportout "roidash/internal/modules/report/port/out"
	"roidash/internal/modules/report/service"
	wizardin "roidash/internal/modules/wizard/port/in"
	"roidash/internal/platform/clock"
	apperrors "roidash/internal/platform/errors"
	"roidash/internal/platform/id"
	"roidash/internal/platform/slug"
)

// ShareBaseURL prefixes simulated share links.
const ShareBaseURL = "https://share.roidash.app/r/"

type Interactor struct {
	store     wizardin.Store
	exporters reportout.ExporterFactory
	clock     clock.Clock
	ids       id.Generator
	logger    *zap.Logger
}

func NewInteractor(store wizardin.Store, exporters reportout.ExporterFactory, clk clock.Clock, ids id.Generator, logger *zap.Logger) reportin.Usecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactor{store: store, exporters: exporters, clock: clk, ids: ids, logger: logger}
}

func (i *Interactor) Build(_ context.Context) (dto.Report, error) {
	state := i.store.Snapshot()
	if state.ClientInfo == nil {
		return dto.Report{}, apperrors.ErrSetupRequired
	}
	return service.Build(state, clock.Today(i.clock)), nil
}

// Export writes the report to <dir>/<client>-roi-report.<ext>. An existing
// Markdown report is refreshed in place.
func (i *Interactor) Export(ctx context.Context, format, dir string) (dto.ExportOutput, error) {
	exporter, err := i.exporters(format)
	if err != nil {
		return dto.ExportOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	report, err := i.Build(ctx)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	buf := bytes.Buffer{}
	if err := exporter.Export(report, &buf); err != nil {
		return dto.ExportOutput{}, fmt.Errorf("render %s report: %w", format, err)
	}
	payload := buf.Bytes()

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return dto.ExportOutput{}, fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-roi-report.%s", slug.Make(report.Client.Name), exporter.Extension()))
	if merger, ok := exporter.(reportout.Merger); ok {
		if existing, err := os.ReadFile(path); err == nil {
			merged, err := merger.Merge(existing, payload)
			if err != nil {
				i.logger.Warn("existing report not merged, overwriting", zap.String("path", path), zap.Error(err))
			} else {
				payload = merged
			}
		}
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return dto.ExportOutput{}, fmt.Errorf("write report: %w", err)
	}
	i.logger.Info("report exported", zap.String("format", exporter.Extension()), zap.String("path", path))
	return dto.ExportOutput{Format: exporter.Extension(), Path: path}, nil
}

// Share simulates sending the report to recipient and returns the link that
// would be shared.
func (i *Interactor) Share(ctx context.Context, recipient string) (dto.ShareOutput, error) {
	addr, err := mail.ParseAddress(recipient)
	if err != nil {
		return dto.ShareOutput{}, fmt.Errorf("%w: recipient must be an email address: %v", apperrors.ErrInvalidInput, err)
	}
	report, err := i.Build(ctx)
	if err != nil {
		return dto.ShareOutput{}, err
	}
	link := ShareBaseURL + slug.Make(report.Client.Name) + "-" + i.ids.New()
	i.logger.Info("report shared", zap.String("recipient", addr.Address), zap.String("link", link))
	return dto.ShareOutput{Recipient: addr.Address, Link: link}, nil
}
