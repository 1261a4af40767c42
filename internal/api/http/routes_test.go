package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/weathercap/weathercap/internal/history"
	"github.com/weathercap/weathercap/internal/prefs"
	"github.com/weathercap/weathercap/internal/summary"
	"github.com/weathercap/weathercap/internal/weather"
)

type fakeSource struct {
	readings map[string]weather.Reading
	entries  []weather.ForecastEntry
}

func (f *fakeSource) CurrentWeather(ctx context.Context, loc weather.Location) (weather.Reading, error) {
	r, ok := f.readings[loc.City]
	if !ok {
		return weather.Reading{}, &weather.APIError{
			Kind:    weather.KindNotFound,
			Query:   loc.Query(),
			Message: "location not found",
		}
	}
	return r, nil
}

func (f *fakeSource) Forecast(ctx context.Context, loc weather.Location) ([]weather.ForecastEntry, error) {
	if len(f.entries) == 0 {
		return nil, &weather.APIError{Kind: weather.KindProvider, Message: "no forecast entries"}
	}
	return f.entries, nil
}

func newTestApp(t *testing.T) (*fiber.App, *fakeSource) {
	t.Helper()

	src := &fakeSource{readings: map[string]weather.Reading{
		"Tampa": {TemperatureF: 88.6, Description: "clear sky", Humidity: 70},
	}}

	hist, err := history.NewStore(filepath.Join(t.TempDir(), "history.csv"))
	if err != nil {
		t.Fatalf("history.NewStore: %v", err)
	}
	pm, err := prefs.NewManager(filepath.Join(t.TempDir(), "prefs.json"))
	if err != nil {
		t.Fatalf("prefs.NewManager: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, Deps{
		Service:    weather.NewService(src, hist),
		History:    hist,
		Prefs:      pm,
		Summarizer: summary.New(""),
	})
	return app, src
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body io.Reader) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestCurrentWeatherEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/current?city=Tampa&state=fl", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var payload struct {
		Location weather.Location `json:"location"`
		Reading  weather.Reading  `json:"reading"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Location.State != "FL" || payload.Location.City != "Tampa" {
		t.Errorf("location = %+v, want normalized FL state", payload.Location)
	}
	if payload.Reading.TemperatureF != 88.6 {
		t.Errorf("reading = %+v", payload.Reading)
	}
}

func TestCurrentWeatherMissingCity(t *testing.T) {
	app, _ := newTestApp(t)
	resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/current", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCurrentWeatherInvalidStateSuggests(t *testing.T) {
	app, _ := newTestApp(t)
	resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/current?city=Tampa&state=Flor", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "FL (Florida)") {
		t.Errorf("body %q should carry the suggestion", string(body))
	}
}

func TestCurrentWeatherNotFoundStatus(t *testing.T) {
	app, _ := newTestApp(t)
	resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/current?city=Nowhereton", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for an unresolvable location", resp.StatusCode)
	}
}

func TestForecastEndpointValidatesDays(t *testing.T) {
	app, src := newTestApp(t)
	base := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		src.entries = append(src.entries, weather.ForecastEntry{
			Time:         base.Add(time.Duration(i) * 3 * time.Hour),
			TemperatureF: 80,
			Description:  "clear sky",
		})
	}

	resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/forecast?city=Tampa&days=8", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("days=8 status = %d, want 400", resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodGet, "/api/v1/weather/forecast?city=Tampa&days=1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("days=1 status = %d, want 200", resp.StatusCode)
	}
}

func TestCompareEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/compare?cities=Tampa,FL;Nowhereton", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var payload struct {
		Results []weather.Comparison `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(payload.Results))
	}
	if payload.Results[0].Reading == nil {
		t.Errorf("Tampa should resolve: %+v", payload.Results[0])
	}
	if payload.Results[1].Error == "" {
		t.Errorf("Nowhereton should carry an error: %+v", payload.Results[1])
	}
}

func TestStatesValidateEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/states/validate?input=calif", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"code":"CA"`) {
		t.Errorf("body = %s, want CA code", string(body))
	}
}

func TestHistoryEndpointsAfterLookup(t *testing.T) {
	app, _ := newTestApp(t)

	// A successful lookup appends to history.
	doRequest(t, app, http.MethodGet, "/api/v1/weather/current?city=Tampa", nil)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/history/city?city=tampa", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "clear sky") {
		t.Errorf("history body = %s, want the recorded description", string(body))
	}

	resp = doRequest(t, app, http.MethodGet, "/api/v1/history/stats?city=Tampa", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats status = %d, want 200", resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodGet, "/api/v1/history/stats?city=Nowhereton", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("stats for unknown city = %d, want 404", resp.StatusCode)
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodPut, "/api/v1/prefs",
		strings.NewReader(`{"theme":"dark","default_city":"Tampa"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put status = %d, want 200", resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodGet, "/api/v1/prefs", nil)
	var p prefs.Preferences
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Theme != prefs.ThemeDark || p.DefaultCity != "Tampa" {
		t.Errorf("prefs = %+v", p)
	}

	resp = doRequest(t, app, http.MethodPut, "/api/v1/prefs",
		strings.NewReader(`{"theme":"neon","default_city":"Tampa"}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid theme status = %d, want 400", resp.StatusCode)
	}
}

func TestSummaryDisabledWithoutKey(t *testing.T) {
	app, _ := newTestApp(t)
	resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/summary?city=Tampa", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}
