package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/i474232898/weather-report/internal/weather"
)

// LookupFunc runs one lookup for the watched city.
type LookupFunc func(ctx context.Context, city string) (weather.WeatherResult, error)

// ReportFunc receives every completed lookup, in order.
type ReportFunc func(result weather.WeatherResult)

// Scheduler repeats a lookup for a single city on a fixed interval. Runs
// never overlap.
type Scheduler struct {
	scheduler *gocron.Scheduler
	lookup    LookupFunc
	report    ReportFunc
	city      string
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. timeout bounds each run.
func New(city string, interval, timeout time.Duration, lookup LookupFunc, report ReportFunc) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		lookup:    lookup,
		report:    report,
		city:      city,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first lookup runs immediately.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	log.Printf("scheduler: running weather lookup for %q", s.city)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	res, err := s.lookup(ctx, s.city)
	if err != nil {
		log.Printf("scheduler: lookup failed for %q: %v", s.city, err)
		return
	}
	s.report(res)
}

// Run starts the scheduler and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	defer s.Stop()

	<-ctx.Done()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
