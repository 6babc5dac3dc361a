package epidemic

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/i474232898/epidemic-tally/internal/dates"
	"github.com/i474232898/epidemic-tally/internal/logger"
)

var tracer = otel.Tracer("epidemic")

// Stats counts pipeline activity since the Service was created.
type Stats struct {
	CacheHits          int64
	Fetches            int64
	CacheWriteFailures int64
}

// Service runs the cache -> fetch -> parse -> aggregate -> cache pipeline.
type Service struct {
	store    Store
	fetcher  Fetcher
	sentinel string
	log      *zap.SugaredLogger

	hits        atomic.Int64
	fetches     atomic.Int64
	writeFailed atomic.Int64
}

// Option customises a Service.
type Option func(*Service)

// WithSentinel sets the country every aggregated report must contain.
// An empty name disables the check.
func WithSentinel(country string) Option {
	return func(s *Service) { s.sentinel = country }
}

// WithLogger overrides the process logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Service) { s.log = l }
}

// DefaultSentinel is always present in genuine daily reports.
const DefaultSentinel = "Singapore"

// NewService creates a new Service.
func NewService(store Store, fetcher Fetcher, opts ...Option) *Service {
	s := &Service{
		store:    store,
		fetcher:  fetcher,
		sentinel: DefaultSentinel,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	return s
}

// ParseData returns the per-country report for a canonical dd-mm-yyyy date.
// A malformed date fails with ErrInvalidInput before any I/O. If the report
// was computed but could not be cached, both the report and an error wrapping
// ErrCacheWrite are returned.
func (s *Service) ParseData(ctx context.Context, date string) (Report, error) {
	d, err := dates.Parse(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.Report(ctx, d)
}

// Report is ParseData for an already parsed date.
func (s *Service) Report(ctx context.Context, date dates.Date) (Report, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: zero date", ErrInvalidInput)
	}
	log := s.log.With("date", date.String(), "run", uuid.NewString())

	cached, err := s.cacheGet(ctx, date)
	switch {
	case err == nil:
		s.hits.Add(1)
		log.Debugf("cache hit with %d countries", len(cached))
		return cached, nil
	case !errors.Is(err, ErrCacheMiss):
		log.Warnf("cache read failed, fetching instead: %v", err)
	}

	s.fetches.Add(1)
	raw, err := s.fetcher.Fetch(ctx, date)
	if err != nil {
		log.Infof("fetch failed: %v", err)
		return nil, err
	}

	rows, err := Parse(raw)
	if err != nil {
		log.Warnf("parse failed: %v", err)
		return nil, fmt.Errorf("date %s: %w", date, err)
	}

	report, err := Aggregate(rows, s.sentinel)
	if err != nil {
		log.Warnf("aggregation failed: %v", err)
		return nil, fmt.Errorf("date %s: %w", date, err)
	}
	log.Infof("aggregated %d rows into %d countries", len(rows), len(report))

	if err := s.cachePut(ctx, date, report); err != nil {
		s.writeFailed.Add(1)
		log.Errorf("cache write failed: %v", err)
		return report, fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return report, nil
}

// Countries lists the country names present in the report for date.
func (s *Service) Countries(ctx context.Context, date dates.Date) ([]string, error) {
	report, err := s.Report(ctx, date)
	if err != nil && !IsCacheWrite(err) {
		return nil, err
	}
	return report.Countries(), nil
}

// Stats returns a snapshot of the pipeline counters.
func (s *Service) Stats() Stats {
	return Stats{
		CacheHits:          s.hits.Load(),
		Fetches:            s.fetches.Load(),
		CacheWriteFailures: s.writeFailed.Load(),
	}
}

func (s *Service) cacheGet(ctx context.Context, date dates.Date) (Report, error) {
	ctx, span := tracer.Start(ctx, "cache:get")
	defer span.End()
	span.SetAttributes(attribute.String("epidemic.cache_key", date.Key()))

	report, err := s.store.Get(ctx, date)
	if err != nil && !errors.Is(err, ErrCacheMiss) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read cached report")
	}
	return report, err
}

func (s *Service) cachePut(ctx context.Context, date dates.Date, report Report) error {
	ctx, span := tracer.Start(ctx, "cache:put")
	defer span.End()
	span.SetAttributes(
		attribute.String("epidemic.cache_key", date.Key()),
		attribute.Int("epidemic.countries", len(report)),
	)

	if err := s.store.Put(ctx, date, report); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write cached report")
		return err
	}
	return nil
}
