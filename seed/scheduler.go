/*
scheduler.go - Holiday calendar rollover

PURPOSE:
  Startup seeds the current and next year. A server that stays up across
  New Year would otherwise run without holidays for the year after. The
  scheduler re-applies the calendar periodically so the next year is always
  present.

DESIGN:
  - Background goroutine with a configurable check interval
  - Apply is idempotent: existing (possibly edited) holidays are skipped
    and deleted ones are not recreated
  - Runs once immediately on Start

USAGE:
  s := seed.NewScheduler(store, cal, logger)
  s.Start()
  // ... later
  s.Stop()
*/
package seed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/warp/leavedesk/leave"
)

// Scheduler keeps the holiday calendar seeded for the current and next year.
type Scheduler struct {
	Store         leave.HolidayStore
	Calendar      *Calendar
	Logger        *slog.Logger
	CheckInterval time.Duration
	Now           func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewScheduler creates a scheduler checking every 12 hours.
func NewScheduler(st leave.HolidayStore, c *Calendar, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		Store:         st,
		Calendar:      c,
		Logger:        logger,
		CheckInterval: 12 * time.Hour,
		Now:           time.Now,
	}
}

// RunOnce seeds the current and next year and returns how many holidays
// were added.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	year := s.Now().Year()
	added, err := Apply(ctx, s.Store, s.Calendar, year, year+1)
	if err != nil {
		return added, err
	}
	if added > 0 {
		s.Logger.Info("holiday calendar seeded", "added", added, "years", []int{year, year + 1})
	}
	return added, nil
}

// Start begins the scheduler. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		return
	}
	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run(s.ticker, s.stop)

	s.Logger.Debug("holiday scheduler started", "interval", s.CheckInterval)
}

// Stop stops the scheduler and waits for a running check to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil
	s.Logger.Debug("holiday scheduler stopped")
}

func (s *Scheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()

	check := func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			s.Logger.Warn("holiday seeding failed", "err", err)
		}
	}

	check()
	for {
		select {
		case <-ticker.C:
			check()
		case <-stop:
			return
		}
	}
}
