package out

import (
	"context"

	"roidash/internal/modules/integration/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

// ConnectorHost talks to external connector binaries.
type ConnectorHost interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	ListPlatforms(ctx context.Context, manifest domain.Manifest, useCase string) ([]domain.Platform, error)
}
