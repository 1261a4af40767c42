// Package scheduler keeps the tracked locations' weather fresh by fetching
// them on a fixed interval and recording results into history.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sony/gobreaker"

	"github.com/weathercap/weathercap/internal/weather"
)

// Fetcher is the service surface the scheduler needs.
type Fetcher interface {
	Current(ctx context.Context, loc weather.Location) (weather.Reading, error)
}

// Scheduler periodically refreshes weather data for configured locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	fetcher   Fetcher
	locations []weather.Location
	interval  time.Duration
	backoff   BackoffConfig
	circuit   *gobreaker.CircuitBreaker
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, fetcher Fetcher) *Scheduler {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weather-refresh",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		fetcher:   fetcher,
		locations: locations,
		interval:  interval,
		backoff:   defaultBackoff,
		circuit:   cb,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		log.Println("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.refreshAll)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// refreshAll fetches every tracked location sequentially; each lookup is an
// independent network call and failures never abort the rest of the round.
func (s *Scheduler) refreshAll() {
	log.Println("scheduler: running weather refresh job")

	for _, loc := range s.locations {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

		err := fetchWithResilience(ctx, s.backoff, s.circuit, func(ctx context.Context) error {
			_, err := s.fetcher.Current(ctx, loc)
			return err
		})
		cancel()

		if err != nil {
			log.Printf("scheduler: refresh failed for %s: %v", loc.Key(), err)
		}
	}

	log.Println("scheduler: completed weather refresh job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
