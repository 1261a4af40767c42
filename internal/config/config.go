package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/weathercap/weathercap/internal/states"
	"github.com/weathercap/weathercap/internal/weather"
)

type AppConfig struct {
	// WeatherAPIKey is resolved here and passed explicitly to the client;
	// the core never reads the environment itself.
	WeatherAPIKey string

	// OpenAIKey enables the optional conditions summarizer when set.
	OpenAIKey string

	// RefreshInterval controls how often the scheduler refreshes tracked
	// locations.
	RefreshInterval time.Duration

	// Locations the scheduler keeps fresh.
	Locations []weather.Location

	HistoryFile string
	PrefsFile   string

	Port string
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	// The historical env var name is lowercase `api_key`; WEATHER_API_KEY is
	// also honored.
	cfg.WeatherAPIKey = os.Getenv("api_key")
	if cfg.WeatherAPIKey == "" {
		cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	}

	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")

	intervalStr := getenvDefault("REFRESH_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	cfg.HistoryFile = getenvDefault("HISTORY_FILE", "data/weather_history.csv")
	cfg.PrefsFile = getenvDefault("PREFS_FILE", "data/preferences.json")
	cfg.Port = getenvDefault("PORT", "8080")

	locs, err := loadTrackedLocations()
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	return cfg, nil
}

// loadTrackedLocations parses TRACKED_LOCATIONS, a semicolon-separated list
// of city[,state][,country] entries, e.g. "New Brunswick,NJ;Toronto,,CA".
// State text is normalized through the states tables.
func loadTrackedLocations() ([]weather.Location, error) {
	raw := os.Getenv("TRACKED_LOCATIONS")
	if raw == "" {
		return nil, nil
	}

	var locs []weather.Location
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ",")
		loc := weather.Location{City: strings.TrimSpace(parts[0])}
		if loc.City == "" {
			return nil, fmt.Errorf("tracked location %q has no city", entry)
		}
		if len(parts) > 1 {
			res := states.Validate(parts[1])
			if !res.Valid {
				if res.Suggestion != "" {
					return nil, fmt.Errorf("tracked location %q has unknown state %q (did you mean %s?)",
						entry, parts[1], res.Suggestion)
				}
				return nil, fmt.Errorf("tracked location %q has unknown state %q", entry, parts[1])
			}
			loc.State = res.Code
		}
		if len(parts) > 2 {
			loc.Country = strings.ToUpper(strings.TrimSpace(parts[2]))
		}

		locs = append(locs, loc)
	}

	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
