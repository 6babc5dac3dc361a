package epidemic

import "errors"

var (
	// ErrInvalidInput is returned before any I/O when a parameter is unusable.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means the upstream has no snapshot for the date yet.
	ErrNotFound = errors.New("no upstream report for date")

	// ErrTransport covers every network or protocol failure other than not found.
	ErrTransport = errors.New("upstream transport failure")

	// ErrEmptyPayload means the snapshot exists but has no content.
	ErrEmptyPayload = errors.New("upstream report is empty")

	// ErrInvalidData means the payload decoded but is structurally unusable.
	ErrInvalidData = errors.New("invalid report data")

	// ErrMalformedRow means a data row fits no layout or has non-integer counts.
	ErrMalformedRow = errors.New("malformed report row")

	// ErrCacheWrite is returned alongside a valid report when persisting it failed.
	ErrCacheWrite = errors.New("cache write failed")

	// ErrCacheMiss is returned by a Store that holds nothing for the date.
	ErrCacheMiss = errors.New("no cached report for date")

	// ErrCountryUnavailable means a country is absent from one of the reports of a series.
	ErrCountryUnavailable = errors.New("country unavailable")
)

// IsCacheWrite reports whether err only signals a failed cache write, in
// which case the accompanying report is complete and usable.
func IsCacheWrite(err error) bool {
	return errors.Is(err, ErrCacheWrite)
}
