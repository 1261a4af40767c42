package weather

import (
	"context"
	"log"
	"sort"
	"time"
)

// MaxForecastDays is the longest forecast window the provider serves.
const MaxForecastDays = 5

// HistoryRecorder persists successful lookups. Satisfied by the CSV history
// store; failures to record never fail the lookup itself.
type HistoryRecorder interface {
	Add(city string, reading Reading) error
}

// Source is the slice of the Client the service needs, split out so tests
// can substitute a fake.
type Source interface {
	CurrentWeather(ctx context.Context, loc Location) (Reading, error)
	Forecast(ctx context.Context, loc Location) ([]ForecastEntry, error)
}

// Service orchestrates lookups against the provider client and records
// successful readings into history.
type Service struct {
	source  Source
	history HistoryRecorder
}

// NewService creates a new Service. history may be nil to disable recording.
func NewService(source Source, history HistoryRecorder) *Service {
	return &Service{source: source, history: history}
}

// Current fetches live conditions and appends them to history on success.
func (s *Service) Current(ctx context.Context, loc Location) (Reading, error) {
	reading, err := s.source.CurrentWeather(ctx, loc)
	if err != nil {
		return Reading{}, err
	}

	if s.history != nil {
		if err := s.history.Add(loc.City, reading); err != nil {
			log.Printf("ERROR: failed to record history for %s: %v", loc.Key(), err)
		}
	}

	return reading, nil
}

// Compare looks up several cities one after another. Each city resolves
// independently: failures are reported per city and never abort the rest.
// Calls are sequential on purpose; the client is side-effect-free so callers
// wanting fan-out can add it, but nothing here needs it.
func (s *Service) Compare(ctx context.Context, locs []Location) []Comparison {
	results := make([]Comparison, 0, len(locs))
	for _, loc := range locs {
		reading, err := s.Current(ctx, loc)
		if err != nil {
			results = append(results, Comparison{Location: loc, Error: err.Error()})
			continue
		}
		r := reading
		results = append(results, Comparison{Location: loc, Reading: &r})
	}
	return results
}

// Forecast fetches the 3-hour intervals for loc and groups them into at most
// days calendar-day summaries (UTC days, ascending). days out of range is
// clamped to the provider's 5-day window.
func (s *Service) Forecast(ctx context.Context, loc Location, days int) ([]DayForecast, error) {
	if days <= 0 || days > MaxForecastDays {
		days = MaxForecastDays
	}

	entries, err := s.source.Forecast(ctx, loc)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]ForecastEntry)
	for _, e := range entries {
		key := e.Time.UTC().Format("2006-01-02")
		byDay[key] = append(byDay[key], e)
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	forecast := make([]DayForecast, 0, days)
	for _, k := range keys {
		if len(forecast) >= days {
			break
		}
		forecast = append(forecast, summarizeDay(k, byDay[k]))
	}

	return forecast, nil
}

// summarizeDay reduces one day's intervals to low/high temperatures and the
// most frequent condition text (first seen wins ties).
func summarizeDay(dateKey string, entries []ForecastEntry) DayForecast {
	date, _ := time.Parse("2006-01-02", dateKey)

	low, high := entries[0].TemperatureF, entries[0].TemperatureF
	counts := make(map[string]int, len(entries))
	best := entries[0].Description

	for _, e := range entries {
		if e.TemperatureF < low {
			low = e.TemperatureF
		}
		if e.TemperatureF > high {
			high = e.TemperatureF
		}
		counts[e.Description]++
		if counts[e.Description] > counts[best] {
			best = e.Description
		}
	}

	return DayForecast{
		Date:        date,
		LowF:        low,
		HighF:       high,
		Description: best,
		Entries:     entries,
	}
}
