package epidemic

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(store Store, fetcher Fetcher) *Service {
	return NewService(store, fetcher, WithLogger(zap.NewNop().Sugar()))
}

func TestParseDataColdThenCached(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fetcher := &fakeFetcher{payloads: map[string][]byte{"01-05-2020": []byte(layoutAReport)}}
	store := newFakeStore()
	svc := newTestService(store, fetcher)

	first, err := svc.ParseData(ctx, "01-05-2020")
	require.NoError(t, err)
	sg, ok := first["Singapore"]
	require.True(t, ok)
	for _, v := range []int64{sg.Confirmed, sg.Deaths, sg.Recovered, sg.Active} {
		require.GreaterOrEqual(t, v, int64(0))
	}
	require.Equal(t, 1, fetcher.Calls())
	require.Contains(t, store.data, "01052020")

	second, err := svc.ParseData(ctx, "01-05-2020")
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(first, second))
	require.Equal(t, 1, fetcher.Calls())
	require.Equal(t, Stats{CacheHits: 1, Fetches: 1}, svc.Stats())
}

func TestParseDataRejectsBadDatesWithoutIO(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := newFakeStore()
	svc := newTestService(store, fetcher)

	for _, date := range []string{"2020-04-01", "1-5-2020", "01-4-2020", "01-06-20", "31-02-2020"} {
		_, err := svc.ParseData(context.Background(), date)
		require.ErrorIs(t, err, ErrInvalidInput, date)
	}
	require.Zero(t, fetcher.Calls())
	require.Zero(t, store.putCalls)
}

func TestParseDataPropagatesFetchFailures(t *testing.T) {
	for _, kind := range []error{ErrNotFound, ErrTransport, ErrEmptyPayload} {
		fetcher := &fakeFetcher{errs: map[string]error{"19-10-2026": kind}}
		store := newFakeStore()
		svc := newTestService(store, fetcher)

		report, err := svc.ParseData(context.Background(), "19-10-2026")
		require.ErrorIs(t, err, kind)
		require.Nil(t, report)
		require.Zero(t, store.putCalls)
	}
}

func TestParseDataUnknownDateIsNotFound(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeFetcher{})
	_, err := svc.ParseData(context.Background(), "01-01-2019")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestParseDataDoesNotCacheBadData(t *testing.T) {
	fetcher := &fakeFetcher{payloads: map[string][]byte{
		"01-03-2020": []byte("Province/State,Country/Region,Last Update,Confirmed,Deaths,Recovered\n,Singapore,x,many,0,0\n"),
		"02-03-2020": []byte("Province/State,Country/Region,Last Update,Confirmed,Deaths,Recovered\n,Malaysia,x,1,0,0\n"),
		"03-03-2020": []byte("header\n"),
	}}
	store := newFakeStore()
	svc := newTestService(store, fetcher)

	_, err := svc.ParseData(context.Background(), "01-03-2020")
	require.ErrorIs(t, err, ErrMalformedRow)
	_, err = svc.ParseData(context.Background(), "02-03-2020")
	require.ErrorIs(t, err, ErrInvalidData)
	_, err = svc.ParseData(context.Background(), "03-03-2020")
	require.ErrorIs(t, err, ErrInvalidData)
	require.Zero(t, store.putCalls)
}

func TestParseDataCacheWriteFailureKeepsReport(t *testing.T) {
	fetcher := &fakeFetcher{payloads: map[string][]byte{"01-03-2020": []byte(layoutBReport)}}
	store := newFakeStore()
	store.putErr = errDisk
	svc := newTestService(store, fetcher)

	report, err := svc.ParseData(context.Background(), "01-03-2020")
	require.ErrorIs(t, err, ErrCacheWrite)
	require.True(t, IsCacheWrite(err))
	require.Contains(t, report, "Singapore")
	require.Equal(t, int64(1), svc.Stats().CacheWriteFailures)
}

func TestParseDataCacheReadErrorFallsBackToFetch(t *testing.T) {
	fetcher := &fakeFetcher{payloads: map[string][]byte{"01-03-2020": []byte(layoutBReport)}}
	store := newFakeStore()
	store.getErr = errDisk
	svc := newTestService(store, fetcher)

	report, err := svc.ParseData(context.Background(), "01-03-2020")
	require.NoError(t, err)
	require.Contains(t, report, "Singapore")
	require.Equal(t, 1, fetcher.Calls())
}

func TestWithSentinel(t *testing.T) {
	payload := []byte("Province/State,Country/Region,Last Update,Confirmed,Deaths,Recovered\n,Malaysia,x,1,0,0\n")
	fetcher := &fakeFetcher{payloads: map[string][]byte{"02-03-2020": payload}}
	svc := NewService(newFakeStore(), fetcher, WithSentinel(""), WithLogger(zap.NewNop().Sugar()))

	report, err := svc.ParseData(context.Background(), "02-03-2020")
	require.NoError(t, err)
	require.Equal(t, []string{"Malaysia"}, report.Countries())
}
