package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"btcmag7/internal/domain/models"
	domrepo "btcmag7/internal/domain/repository"
)

// FileSnapshotStore keeps the snapshot as a CSV file on local disk.
type FileSnapshotStore struct {
	path string
}

func NewFileSnapshotStore(path string) domrepo.SnapshotStore {
	return &FileSnapshotStore{path: path}
}

func (s *FileSnapshotStore) Load(_ context.Context) (*models.PriceTable, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, models.CacheCorruptError(err, "read snapshot %s", s.path)
	}
	table, err := DecodeSnapshotCSV(data)
	if err != nil {
		return nil, false, err
	}
	return table, true, nil
}

// Store writes through a temp file and renames it into place, so readers
// never observe a partial snapshot.
func (s *FileSnapshotStore) Store(_ context.Context, table *models.PriceTable) error {
	data, err := EncodeSnapshotCSV(table)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

func (s *FileSnapshotStore) Invalidate(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	return nil
}

func (s *FileSnapshotStore) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
