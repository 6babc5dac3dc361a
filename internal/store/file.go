package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/i474232898/epidemic-tally/internal/dates"
	"github.com/i474232898/epidemic-tally/internal/epidemic"
)

// FileStore keeps one JSON document per date, <dir>/<ddmmyyyy>.json, holding
// {"country": [confirmed, deaths, recovered, active]}.
type FileStore struct {
	dir string
}

var _ epidemic.Store = (*FileStore)(nil)

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store requires a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path is the file backing date.
func (s *FileStore) Path(date dates.Date) string {
	return filepath.Join(s.dir, date.Key()+".json")
}

// Get decodes the cached file for date without further checks.
func (s *FileStore) Get(ctx context.Context, date dates.Date) (epidemic.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(s.Path(date))
	if errors.Is(err, os.ErrNotExist) {
		return nil, epidemic.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var report epidemic.Report
	if err := json.Unmarshal(b, &report); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Path(date), err)
	}
	return report, nil
}

// Put writes the whole report to a temp file and renames it over the entry,
// so concurrent readers see either the old or the new document.
func (s *FileStore) Put(ctx context.Context, date dates.Date, report epidemic.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := json.Marshal(report)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, date.Key()+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path(date))
}

func (s *FileStore) Close() error {
	return nil
}
