// Package history persists successful weather lookups to a CSV file and
// answers simple queries over it.
package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/weathercap/weathercap/internal/weather"
)

// ErrNoRecords is returned when a query matches nothing.
var ErrNoRecords = errors.New("no weather history records")

var headers = []string{"Date", "Time", "City", "Temperature_F", "Description", "Humidity_Percent"}

// Record is one row of the history file.
type Record struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	Time        string  `json:"time"` // HH:MM:SS
	City        string  `json:"city"`
	Temperature float64 `json:"temperatureF"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidityPercent"`
}

// Stats summarizes the recorded temperatures and humidity for a city.
type Stats struct {
	City        string  `json:"city"`
	Count       int     `json:"count"`
	MinTempF    float64 `json:"minTempF"`
	MaxTempF    float64 `json:"maxTempF"`
	AvgTempF    float64 `json:"avgTempF"`
	AvgHumidity float64 `json:"avgHumidityPercent"`
}

// Store appends and reads weather history rows. Safe for concurrent use by
// the scheduler and HTTP handlers; the mutex serializes file access.
type Store struct {
	mu   sync.RWMutex
	path string
	now  func() time.Time
}

// NewStore ensures the CSV file exists with its header row and returns the
// store.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}
	if err := s.ensureFile(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureFile() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history directory: %w", err)
		}
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat history file: %w", err)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create history file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("write history header: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Add appends one reading for a city, timestamped now. The temperature is
// rounded to the nearest whole degree, matching the historical file format.
func (s *Store) Add(city string, reading weather.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	ts := s.now()
	row := []string{
		ts.Format("2006-01-02"),
		ts.Format("15:04:05"),
		city,
		strconv.Itoa(int(math.Round(reading.TemperatureF))),
		reading.Description,
		strconv.Itoa(reading.Humidity),
	}

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("append history row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Recent returns the latest n records, newest first.
func (s *Store) Recent(n int) ([]Record, error) {
	records, err := s.readAll()
	if err != nil {
		return nil, err
	}
	return tail(records, n), nil
}

// ForCity returns the latest n records for one city (case-insensitive),
// newest first.
func (s *Store) ForCity(city string, n int) ([]Record, error) {
	records, err := s.readAll()
	if err != nil {
		return nil, err
	}

	var matched []Record
	for _, r := range records {
		if strings.EqualFold(r.City, city) {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return nil, ErrNoRecords
	}
	return tail(matched, n), nil
}

// StatsForCity computes summary statistics over every record for a city.
func (s *Store) StatsForCity(city string) (Stats, error) {
	records, err := s.readAll()
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{City: city, MinTempF: math.Inf(1), MaxTempF: math.Inf(-1)}
	var sumTemp, sumHumidity float64

	for _, r := range records {
		if !strings.EqualFold(r.City, city) {
			continue
		}
		stats.Count++
		sumTemp += r.Temperature
		sumHumidity += float64(r.Humidity)
		if r.Temperature < stats.MinTempF {
			stats.MinTempF = r.Temperature
		}
		if r.Temperature > stats.MaxTempF {
			stats.MaxTempF = r.Temperature
		}
	}

	if stats.Count == 0 {
		return Stats{}, ErrNoRecords
	}
	stats.AvgTempF = sumTemp / float64(stats.Count)
	stats.AvgHumidity = sumHumidity / float64(stats.Count)
	return stats, nil
}

// readAll parses every data row, skipping rows that do not parse rather than
// failing the whole read: the file may contain hand-edited lines.
func (s *Store) readAll() ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	var records []Record
	for i, row := range rows {
		if i == 0 || len(row) != len(headers) {
			continue // header or malformed row
		}
		temp, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			continue
		}
		humidity, err := strconv.Atoi(row[5])
		if err != nil {
			continue
		}
		records = append(records, Record{
			Date:        row[0],
			Time:        row[1],
			City:        row[2],
			Temperature: temp,
			Description: row[4],
			Humidity:    humidity,
		})
	}
	return records, nil
}

// tail returns the last n records in reverse (newest first) order.
func tail(records []Record, n int) []Record {
	if n <= 0 || n > len(records) {
		n = len(records)
	}
	out := make([]Record, 0, n)
	for i := len(records) - 1; i >= len(records)-n; i-- {
		out = append(out, records[i])
	}
	return out
}
