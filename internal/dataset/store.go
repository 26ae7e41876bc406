package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Store hands out the loaded dataset, re-parsing the file only when it
// changed on disk. The dashboard re-runs the whole pipeline on every
// interaction, so the cache is keyed on path plus modification time.
type Store struct {
	margin decimal.Decimal

	mu      sync.Mutex
	path    string
	modTime time.Time
	cached  *Dataset
}

func NewStore(margin decimal.Decimal) *Store {
	return &Store{margin: margin}
}

// Get returns the current snapshot for path, loading it if the cache is cold
// or stale. A missing file maps to ErrNotFound on every call, so a file that
// appears later starts working without a restart.
func (s *Store) Get(path string) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}

		return nil, fmt.Errorf("stat dataset: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.path == path && s.modTime.Equal(info.ModTime()) {
		return s.cached, nil
	}

	ds, err := Load(path, s.margin)
	if err != nil {
		return nil, err
	}

	s.path = path
	s.modTime = info.ModTime()
	s.cached = ds

	slog.Info("dataset loaded",
		"path", path,
		"rows", len(ds.Records),
		"dropped", ds.Dropped,
	)

	return ds, nil
}
