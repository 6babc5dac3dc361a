package epidemic

import (
	"context"

	"github.com/i474232898/epidemic-tally/internal/dates"
)

// Fetcher retrieves the raw CSV snapshot published for one date.
// Implementations classify failures as ErrNotFound, ErrTransport or ErrEmptyPayload.
type Fetcher interface {
	Fetch(ctx context.Context, date dates.Date) ([]byte, error)
}

// Store is the date-keyed cache of aggregated reports.
type Store interface {
	// Get returns ErrCacheMiss when nothing is stored for the date.
	Get(ctx context.Context, date dates.Date) (Report, error)
	Put(ctx context.Context, date dates.Date, report Report) error
	Close() error
}
