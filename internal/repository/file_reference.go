package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"NavPull/internal/domain/models"
	drepo "NavPull/internal/domain/repository"
)

// FileReferenceStore persists the daily baseline prices with the same
// staging-then-rename discipline as the snapshot store.
type FileReferenceStore struct {
	path string
}

// NewFileReferenceStore creates a reference store backed by path.
func NewFileReferenceStore(path string) drepo.ReferenceStore {
	return &FileReferenceStore{path: path}
}

// Write atomically replaces the reference baseline on disk.
func (s *FileReferenceStore) Write(_ context.Context, ref *models.Reference) error {
	b, err := json.Marshal(ref)
	if err != nil {
		return fmt.Errorf("marshal reference: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write reference staging: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("commit reference: %w", err)
	}
	return nil
}

// Read loads the stored baseline; missing file means a fresh day.
func (s *FileReferenceStore) Read(_ context.Context) (*models.Reference, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &models.Reference{Prices: make(map[string]float64)}, nil
		}
		return nil, fmt.Errorf("read reference: %w", err)
	}

	var ref models.Reference
	if err := json.Unmarshal(b, &ref); err != nil {
		return nil, fmt.Errorf("parse reference: %w", err)
	}
	if ref.Prices == nil {
		ref.Prices = make(map[string]float64)
	}
	return &ref, nil
}
