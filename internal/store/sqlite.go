package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/i474232898/epidemic-tally/internal/dates"
	"github.com/i474232898/epidemic-tally/internal/epidemic"
)

// Schema creates the report table.
const Schema = `
create table if not exists reports (
	key text primary key,
	body text not null
);
`

// SQLiteStore keeps the same JSON documents as FileStore in one sqlite table.
type SQLiteStore struct {
	db *sql.DB
}

var _ epidemic.Store = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the database at path; ":memory:" is allowed.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases shared and serializes writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, date dates.Date) (epidemic.Report, error) {
	var body string
	err := s.db.QueryRowContext(ctx, "select body from reports where key = ?", date.Key()).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, epidemic.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var report epidemic.Report
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", date.Key(), err)
	}
	return report, nil
}

func (s *SQLiteStore) Put(ctx context.Context, date dates.Date, report epidemic.Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(
		ctx,
		`insert into reports (key, body) values (?, ?)
		on conflict (key) do update set body = excluded.body`,
		date.Key(), string(body),
	)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
