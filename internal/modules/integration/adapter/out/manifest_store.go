package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"roidash/internal/modules/integration/domain"
	integrationout "roidash/internal/modules/integration/port/out"
)

// ManifestFile is where connector manifests live under the data dir.
const ManifestFile = "connectors.json"

type FileManifestStore struct {
	dir  string
	path string
}

// NewFileManifestStore reads <dataDir>/connectors/connectors.json. Relative
// binary paths resolve against the connectors directory.
func NewFileManifestStore(dataDir string) integrationout.ManifestStore {
	dir := filepath.Join(dataDir, "connectors")
	return &FileManifestStore{dir: dir, path: filepath.Join(dir, ManifestFile)}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Manifest{}, nil
		}
		return nil, fmt.Errorf("read connector manifests: %w", err)
	}
	var manifests []domain.Manifest
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode connector manifests: %w", err)
	}
	for i := range manifests {
		if manifests[i].Binary != "" && !filepath.IsAbs(manifests[i].Binary) {
			manifests[i].Binary = filepath.Clean(filepath.Join(s.dir, manifests[i].Binary))
		}
	}
	return manifests, nil
}
