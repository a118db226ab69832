package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"roidash/internal/modules/wizard/domain"
	wizardout "roidash/internal/modules/wizard/port/out"
	apperrors "roidash/internal/platform/errors"
)

type FileSlot struct {
	path string
}

func NewFileSlot(dataDir string) wizardout.Slot {
	return &FileSlot{path: filepath.Join(dataDir, domain.SlotKey+".json")}
}

func (s *FileSlot) Path() string { return s.path }

func (s *FileSlot) Load(_ context.Context) ([]byte, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrSlotEmpty
		}
		return nil, fmt.Errorf("read state slot: %w", err)
	}
	return payload, nil
}

// Save replaces the slot through a temp file and rename so a crash never
// leaves a half-written payload behind.
func (s *FileSlot) Save(_ context.Context, payload []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+domain.SlotKey+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp state: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace state slot: %w", err)
	}
	return nil
}

func (s *FileSlot) Remove(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("remove state slot: %w", err)
	}
	return nil
}
