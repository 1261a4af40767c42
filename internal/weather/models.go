package weather

import (
	"strings"
	"time"
)

// Location identifies a place to look weather up for. City is required;
// State is a canonical two-letter US code or free text; Country is an
// ISO 3166-1 alpha-2 code.
type Location struct {
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Query composes the provider location string: city[,STATE][,COUNTRY].
// A state qualifier is only meaningful for US locations, so a state with no
// explicit country defaults the country to US.
func (l Location) Query() string {
	parts := []string{strings.TrimSpace(l.City)}

	state := strings.TrimSpace(l.State)
	country := strings.TrimSpace(l.Country)

	if state != "" {
		parts = append(parts, state)
		if country == "" {
			country = "US"
		}
	}
	if country != "" {
		parts = append(parts, country)
	}

	return strings.Join(parts, ",")
}

// Key returns a canonical string for indexing this location in stores.
func (l Location) Key() string {
	return l.Query()
}

// Reading is the normalized result of a current-weather lookup.
// Temperature is Fahrenheit as delivered by the provider; no conversion
// happens on our side.
type Reading struct {
	TemperatureF float64 `json:"temperatureF"`
	Description  string  `json:"description"`
	Humidity     int     `json:"humidityPercent"`
}

// ForecastEntry is one 3-hour forecast interval.
type ForecastEntry struct {
	Time         time.Time `json:"time"`
	TemperatureF float64   `json:"temperatureF"`
	Humidity     int       `json:"humidityPercent"`
	Description  string    `json:"description"`
}

// DayForecast summarizes one calendar day of forecast intervals.
type DayForecast struct {
	Date        time.Time       `json:"date"`
	LowF        float64         `json:"lowF"`
	HighF       float64         `json:"highF"`
	Description string          `json:"description"`
	Entries     []ForecastEntry `json:"entries"`
}

// Comparison holds the outcome of a multi-city lookup. Cities that failed
// carry their error text instead of a reading.
type Comparison struct {
	Location Location `json:"location"`
	Reading  *Reading `json:"reading,omitempty"`
	Error    string   `json:"error,omitempty"`
}
