package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"NavPull/internal/domain/models"
	drepo "NavPull/internal/domain/repository"
)

// FileHoldingsStore reads the fund universe from a JSON document of the
// form {"Fund Name": [{"symbol": "...", "weight": 12.5}, ...], ...}.
// Document order of the fund keys is preserved; it is the display order.
type FileHoldingsStore struct {
	path string
}

// NewFileHoldingsStore creates a holdings store backed by path.
func NewFileHoldingsStore(path string) drepo.HoldingsStore {
	return &FileHoldingsStore{path: path}
}

// Load parses the holdings document. A missing file yields an empty set
// rather than an error; callers treat an empty set as unavailable data.
func (s *FileHoldingsStore) Load(_ context.Context) (*models.FundSet, error) {
	fs := &models.FundSet{Holdings: make(map[string][]models.Holding)}

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return fs, fmt.Errorf("open holdings: %w", err)
	}
	defer f.Close()

	// Token-wise decode keeps fund keys in document order, which a plain
	// map unmarshal would lose.
	dec := json.NewDecoder(f)
	if _, err := dec.Token(); err != nil {
		return fs, fmt.Errorf("parse holdings: %w", err)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fs, fmt.Errorf("parse holdings: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fs, fmt.Errorf("parse holdings: unexpected token %v", tok)
		}
		var holdings []models.Holding
		if err := dec.Decode(&holdings); err != nil {
			return fs, fmt.Errorf("parse holdings for %q: %w", name, err)
		}
		fs.Names = append(fs.Names, name)
		fs.Holdings[name] = holdings
	}

	return fs, nil
}
