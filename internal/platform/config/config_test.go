package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roidash/internal/platform/config"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := config.Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, config.Default(dir), cfg)
	assert.Equal(t, config.BackendFile, cfg.Storage.Backend)
	assert.Equal(t, 10, cfg.Sync.Step)
}

func TestLoadOverridesFromYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	raw := "storage:\n  backend: sqlite\nsync:\n  interval: 250ms\n  step: 25\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(raw), 0o644))

	cfg, err := config.Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "roidash.db"), cfg.Storage.DBPath)
	assert.Equal(t, 250*time.Millisecond, cfg.Sync.Interval)
	assert.Equal(t, 3*time.Second, cfg.Sync.AuthDelay)
	assert.Equal(t, 25, cfg.Sync.Step)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsUnknownFieldsAndBadValues(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"unknown field": "storage:\n  flavour: x\n",
		"bad backend":   "storage:\n  backend: redis\n",
		"bad step":      "sync:\n  step: 0\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(raw), 0o644))
			_, err := config.Load(dir, "")
			assert.Error(t, err)
		})
	}
}

func TestLoadExplicitMissingPathFails(t *testing.T) {
	t.Parallel()
	_, err := config.Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
