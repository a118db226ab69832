package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	integrationout "roidash/internal/modules/integration/adapter/out"
)

func TestFileManifestStoreLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()
	store := integrationout.NewFileManifestStore(t.TempDir())
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected empty manifests, got %d", len(manifests))
	}
}

func TestFileManifestStoreResolvesRelativeBinary(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	dir := filepath.Join(base, "connectors")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir connectors: %v", err)
	}
	raw := `[
  {
    "name": "reference",
    "version": "1.0.0",
    "binary": "bin/reference-connector",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true
  }
]`
	if err := os.WriteFile(filepath.Join(dir, integrationout.ManifestFile), []byte(raw), 0o644); err != nil {
		t.Fatalf("write connectors.json: %v", err)
	}
	manifests, err := integrationout.NewFileManifestStore(base).Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	want := filepath.Join(dir, "bin", "reference-connector")
	if len(manifests) != 1 || manifests[0].Binary != want {
		t.Fatalf("expected binary %s, got %+v", want, manifests)
	}
}

func TestFileManifestStoreRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	dir := filepath.Join(base, "connectors")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir connectors: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, integrationout.ManifestFile), []byte(`[{"name":"x","capabilities":["command"]}]`), 0o644); err != nil {
		t.Fatalf("write connectors.json: %v", err)
	}
	if _, err := integrationout.NewFileManifestStore(base).Load(context.Background()); err == nil {
		t.Fatalf("expected decode error for unknown field")
	}
}
