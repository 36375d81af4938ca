package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"NavPull/internal/domain/models"
	drepo "NavPull/internal/domain/repository"
)

// FileSnapshotStore persists the last good result set as JSON. Writes go
// to a staging file first and are renamed into place, so a concurrent
// reader never sees a partial snapshot.
type FileSnapshotStore struct {
	path string
}

// NewFileSnapshotStore creates a snapshot store backed by path.
func NewFileSnapshotStore(path string) drepo.SnapshotStore {
	return &FileSnapshotStore{path: path}
}

// Write atomically replaces the snapshot on disk.
func (s *FileSnapshotStore) Write(_ context.Context, snap *models.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write snapshot staging: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Read loads the last committed snapshot. A missing file is not an error;
// it returns (nil, nil) for a cold start.
func (s *FileSnapshotStore) Read(_ context.Context) (*models.Snapshot, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}
