package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/epidemic-tally/internal/dates"
	"github.com/i474232898/epidemic-tally/internal/epidemic"
	"github.com/i474232898/epidemic-tally/internal/logger"
)

// Scheduler periodically warms the report cache for the most recent days.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *epidemic.Service
	days      int
	countries []string
	interval  time.Duration
	log       *zap.SugaredLogger

	// now is replaced in tests.
	now func() time.Time
}

// New creates a new Scheduler. countries, when set, are logged after each run.
func New(days int, interval time.Duration, countries []string, service *epidemic.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		days:      days,
		countries: countries,
		interval:  interval,
		log:       logger.Get().Named("scheduler"),
		now:       time.Now,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if s.days <= 0 {
		s.log.Info("no prefetch days configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		s.Warm(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Warm loads the reports for the configured number of days ending yesterday
// and returns how many are now cached. Today is skipped because the upstream
// usually publishes it the following day.
func (s *Scheduler) Warm(ctx context.Context) int {
	s.log.Infof("warming cache for %d days", s.days)
	end := dates.FromTime(s.now()).AddDays(-1)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		warmed int
		latest epidemic.Report
	)
	for i := 0; i < s.days; i++ {
		day := end.AddDays(-i)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			report, err := s.service.Report(ctx, day)
			if err != nil && !epidemic.IsCacheWrite(err) {
				s.log.Warnf("prefetch failed for %s: %v", day, err)
				return
			}
			if err != nil {
				s.log.Warnf("prefetch for %s not cached: %v", day, err)
			}

			mu.Lock()
			defer mu.Unlock()
			warmed++
			if i == 0 {
				latest = report
			}
		}(i)
	}
	wg.Wait()

	for _, country := range s.countries {
		if t, ok := latest[country]; ok {
			s.log.Infof("%s on %s: confirmed=%d deaths=%d recovered=%d active=%d",
				country, end, t.Confirmed, t.Deaths, t.Recovered, t.Active)
		}
	}
	s.log.Infof("warmed %d of %d days", warmed, s.days)
	return warmed
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
