package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	FileName       = "roidash.yaml"
	BackendFile    = "file"
	BackendSQLite  = "sqlite"
	defaultDataDir = ".roidash"
)

type Config struct {
	DataDir string      `yaml:"-"`
	Storage StorageConf `yaml:"storage"`
	Sync    SyncConf    `yaml:"sync"`
	Log     LogConf     `yaml:"log"`
}

type StorageConf struct {
	Backend string `yaml:"backend"`
	DBPath  string `yaml:"db_path"`
}

type SyncConf struct {
	AuthDelay time.Duration `yaml:"auth_delay"`
	Interval  time.Duration `yaml:"interval"`
	Step      int           `yaml:"step"`
}

type LogConf struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func Default(dataDir string) Config {
	if dataDir == "" {
		dataDir = defaultDataDir
	}
	return Config{
		DataDir: dataDir,
		Storage: StorageConf{Backend: BackendFile, DBPath: filepath.Join(dataDir, "roidash.db")},
		Sync:    SyncConf{AuthDelay: 3 * time.Second, Interval: 500 * time.Millisecond, Step: 10},
		Log:     LogConf{Level: "info", File: filepath.Join(dataDir, "roidash.log")},
	}
}

// Load reads path (or <dataDir>/roidash.yaml when path is empty) over the
// defaults. A missing file is not an error.
func Load(dataDir, path string) (Config, error) {
	cfg := Default(dataDir)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.DataDir, FileName)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data dir is required")
	}
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.DBPath == "" {
		return fmt.Errorf("storage db_path is required for sqlite backend")
	}
	if c.Sync.Step <= 0 || c.Sync.Step > 100 {
		return fmt.Errorf("sync step must be within 1..100, got %d", c.Sync.Step)
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("sync interval must be positive")
	}
	if c.Sync.AuthDelay < 0 {
		return fmt.Errorf("sync auth delay must not be negative")
	}
	return nil
}
