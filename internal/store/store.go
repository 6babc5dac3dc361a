// Package store holds the date-keyed report cache backends.
package store

import (
	"fmt"

	"github.com/i474232898/epidemic-tally/internal/epidemic"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	Dir        string
	SQLitePath string
}

// Open constructs the configured backend. The caller owns it and must Close it.
func Open(opts Options) (epidemic.Store, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileStore(opts.Dir)
	case BackendSQLite:
		return OpenSQLite(opts.SQLitePath)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
