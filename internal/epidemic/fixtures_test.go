package epidemic

import (
	"context"
	"errors"
	"sync"

	"github.com/i474232898/epidemic-tally/internal/dates"
)

const layoutAReport = "\ufeffFIPS,Admin2,Province_State,Country_Region,Last_Update,Lat,Long_,Confirmed,Deaths,Recovered,Active,Combined_Key\r\n" +
	",,,Singapore,2020-05-01 02:32:27,1.2833,103.8333,17101,15,1268,15818,Singapore\r\n" +
	",,Hubei,China,2020-05-01 02:32:27,30.9756,112.2707,68128,4512,63616,0,\"Hubei, China\"\r\n" +
	",,Beijing,China,2020-05-01 02:32:27,40.1824,116.4142,593,9,541,43,\"Beijing, China\"\r\n" +
	"36061,New York City,New York,US,2020-05-01 02:32:27,40.7672,-73.9715,167478,13156,0,154322,\"New York City, New York, US\"\r\n"

const layoutBReport = "Province/State,Country/Region,Last Update,Confirmed,Deaths,Recovered\n" +
	"Hubei,Mainland China,2020-03-01T10:13:19,66907,2761,31536\n" +
	"Guangdong,Mainland China,2020-03-01T14:13:18,1349,7,1016\n" +
	",Singapore,2020-03-01T10:13:19,106,0,72\n" +
	"\"Diamond Princess cruise ship\",Others,2020-03-01T06:23:06,705,6,10\n"

type fakeFetcher struct {
	mu       sync.Mutex
	payloads map[string][]byte
	errs     map[string]error
	calls    int
}

func (f *fakeFetcher) Fetch(_ context.Context, date dates.Date) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.errs[date.String()]; ok {
		return nil, err
	}
	if p, ok := f.payloads[date.String()]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStore struct {
	mu       sync.Mutex
	data     map[string]Report
	putErr   error
	getErr   error
	putCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]Report)}
}

func (s *fakeStore) Get(_ context.Context, date dates.Date) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	r, ok := s.data[date.Key()]
	if !ok {
		return nil, ErrCacheMiss
	}
	return r.Clone(), nil
}

func (s *fakeStore) Put(_ context.Context, date dates.Date, report Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putCalls++
	if s.putErr != nil {
		return s.putErr
	}
	s.data[date.Key()] = report.Clone()
	return nil
}

func (s *fakeStore) Close() error { return nil }

var errDisk = errors.New("disk full")
