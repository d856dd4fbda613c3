// Package localstore keeps documents and reference data as JSON files in a
// directory, one file per collection.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	portsrepo "github.com/SscSPs/etracking_app/internal/core/ports/repositories"
)

const (
	employeesFile  = "employees.json"
	warehousesFile = "warehouses.json"
)

// Store serialises all file access behind one mutex.
type Store struct {
	dir    string
	mu     sync.Mutex
	now    func() time.Time
	logger *slog.Logger
}

// NewStore creates the directory if needed.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create local store directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, now: time.Now, logger: logger}, nil
}

// NewRepositoryProvider builds a provider backed by JSON files in dir.
func NewRepositoryProvider(dir string, logger *slog.Logger) (portsrepo.RepositoryProvider, error) {
	s, err := NewStore(dir, logger)
	if err != nil {
		return portsrepo.RepositoryProvider{}, err
	}
	return portsrepo.RepositoryProvider{
		DocumentRepo:  &DocumentRepository{store: s},
		ReferenceRepo: &ReferenceRepository{store: s},
	}, nil
}

// readJSON decodes name into a fresh T. A missing file, a file that does not
// decode as a whole, or one that valid rejects reads as the zero value; a
// partially decoded value is never returned.
func readJSON[T any](s *Store, name string, valid func(T) error) (T, error) {
	var zero T
	path := filepath.Join(s.dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zero, nil
		}
		return zero, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.malformed(path, err)
		return zero, nil
	}
	if valid != nil {
		if err := valid(v); err != nil {
			s.malformed(path, err)
			return zero, nil
		}
	}
	return v, nil
}

func (s *Store) malformed(path string, err error) {
	s.logger.Warn("Ignoring malformed local store file", slog.String("path", path), slog.String("error", err.Error()))
}

// writeJSON replaces name atomically.
func (s *Store) writeJSON(name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
