package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"roidash/internal/modules/integration/domain"
	"roidash/internal/modules/integration/dto"
	integrationout "roidash/internal/modules/integration/port/out"
)

// ConnectorService resolves the platforms offered by external connectors.
type ConnectorService struct {
	store  integrationout.ManifestStore
	host   integrationout.ConnectorHost
	logger *zap.Logger
}

func NewConnectorService(store integrationout.ManifestStore, host integrationout.ConnectorHost, logger *zap.Logger) *ConnectorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectorService{store: store, host: host, logger: logger}
}

func (s *ConnectorService) List(ctx context.Context) ([]dto.ConnectorInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConnectorInfo, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, dto.ConnectorInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary})
	}
	return out, nil
}

func (s *ConnectorService) Doctor(ctx context.Context, useCase string) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
				if platforms, err := s.host.ListPlatforms(ctx, m, useCase); err == nil {
					result.Platforms = len(platforms)
				}
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

// Options collects the platforms every enabled connector offers for useCase.
// A connector that fails is logged and skipped so the built-in catalog stays
// usable.
func (s *ConnectorService) Options(ctx context.Context, useCase string) ([]domain.Option, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := []domain.Option{}
	for _, manifest := range manifests {
		if !manifest.Enabled {
			continue
		}
		if err := s.runnable(ctx, manifest); err != nil {
			s.logger.Warn("connector skipped", zap.String("connector", manifest.Name), zap.Error(err))
			continue
		}
		platforms, err := s.host.ListPlatforms(ctx, manifest, useCase)
		if err != nil {
			s.logger.Warn("connector platforms unavailable", zap.String("connector", manifest.Name), zap.Error(err))
			continue
		}
		for _, platform := range platforms {
			option := platform.Option(manifest.Name)
			if err := option.Validate(); err != nil {
				s.logger.Warn("connector platform rejected", zap.String("connector", manifest.Name), zap.Error(err))
				continue
			}
			out = append(out, option)
		}
	}
	return out, nil
}

func (s *ConnectorService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate connector name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func (s *ConnectorService) runnable(ctx context.Context, manifest domain.Manifest) error {
	if !manifest.Enabled {
		return fmt.Errorf("%w: %s", domain.ErrConnectorDisabled, manifest.Name)
	}
	if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
		return err
	}
	if s.host == nil {
		return fmt.Errorf("no connector host configured")
	}
	if err := s.host.CheckLifecycle(ctx, manifest); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: %s", domain.ErrConnectorTimeout, manifest.Name)
		}
		return err
	}
	return nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read connector binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
