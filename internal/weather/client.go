package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	currentWeatherURL = "https://api.openweathermap.org/data/2.5/weather"
	forecastURL       = "https://api.openweathermap.org/data/2.5/forecast"

	// Provider contract: 5 days of 3-hour intervals.
	maxForecastEntries = 40

	requestTimeout = 10 * time.Second
)

// OpenWeather API keys are 32 hexadecimal-ish alphanumerics.
var apiKeyPattern = regexp.MustCompile(`^[A-Za-z0-9]{32}$`)

// Client talks to the OpenWeather current-weather and forecast endpoints.
// It holds no mutable state besides the validated key and performs no
// automatic retries; retry policy belongs to the caller.
type Client struct {
	apiKey      string
	currentURL  string
	forecastURL string
	httpClient  *http.Client
}

// NewClient validates the API key eagerly and returns a ready client.
// A nil httpClient gets a default with the fixed 10-second timeout.
func NewClient(httpClient *http.Client, apiKey string) (*Client, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, &APIError{
			Kind:    KindConfiguration,
			Message: "no API key configured. Set api_key in your .env file.",
		}
	}
	if !apiKeyPattern.MatchString(key) {
		return nil, &APIError{
			Kind: KindConfiguration,
			Message: fmt.Sprintf(
				"API key has unexpected format (got %d characters, want 32 alphanumerics). Check your .env file.",
				len(key)),
		}
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	return &Client{
		apiKey:      key,
		currentURL:  currentWeatherURL,
		forecastURL: forecastURL,
		httpClient:  httpClient,
	}, nil
}

// CurrentWeather fetches the live conditions for loc. On failure it returns
// exactly one *APIError describing why.
func (c *Client) CurrentWeather(ctx context.Context, loc Location) (Reading, error) {
	query, err := c.locationQuery(loc)
	if err != nil {
		return Reading{}, err
	}

	body, apiErr := c.get(ctx, c.currentURL, query)
	if apiErr != nil {
		return Reading{}, apiErr
	}

	var payload struct {
		Main *struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Reading{}, &APIError{
			Kind:    KindProvider,
			Message: "provider returned an invalid response format",
		}
	}
	if payload.Main == nil || len(payload.Weather) == 0 || payload.Weather[0].Description == "" {
		return Reading{}, &APIError{
			Kind:    KindProvider,
			Message: "provider response is missing required weather fields",
		}
	}

	return Reading{
		TemperatureF: payload.Main.Temp,
		Description:  payload.Weather[0].Description,
		Humidity:     payload.Main.Humidity,
	}, nil
}

// Forecast fetches up to 5 days of 3-hour intervals for loc, capped at the
// first 40 entries. A 404 surfaces the same distinct not-found kind as
// CurrentWeather.
func (c *Client) Forecast(ctx context.Context, loc Location) ([]ForecastEntry, error) {
	query, err := c.locationQuery(loc)
	if err != nil {
		return nil, err
	}

	body, apiErr := c.get(ctx, c.forecastURL, query)
	if apiErr != nil {
		return nil, apiErr
	}

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main *struct {
				Temp     float64 `json:"temp"`
				Humidity int     `json:"humidity"`
			} `json:"main"`
			Weather []struct {
				Description string `json:"description"`
			} `json:"weather"`
		} `json:"list"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &APIError{
			Kind:    KindProvider,
			Message: "provider returned an invalid response format",
		}
	}
	if len(payload.List) == 0 {
		return nil, &APIError{
			Kind:    KindProvider,
			Message: "provider response contains no forecast entries",
		}
	}

	items := payload.List
	if len(items) > maxForecastEntries {
		items = items[:maxForecastEntries]
	}

	entries := make([]ForecastEntry, 0, len(items))
	for _, item := range items {
		if item.Main == nil || len(item.Weather) == 0 {
			return nil, &APIError{
				Kind:    KindProvider,
				Message: "provider response is missing required forecast fields",
			}
		}
		entries = append(entries, ForecastEntry{
			Time:         time.Unix(item.Dt, 0).UTC(),
			TemperatureF: item.Main.Temp,
			Humidity:     item.Main.Humidity,
			Description:  item.Weather[0].Description,
		})
	}

	return entries, nil
}

// locationQuery validates the city and composes the provider query string.
func (c *Client) locationQuery(loc Location) (string, error) {
	if strings.TrimSpace(loc.City) == "" {
		return "", &APIError{
			Kind:    KindInput,
			Message: "city must not be empty",
		}
	}
	return loc.Query(), nil
}

// get performs one GET against endpoint with the composed query and returns
// the raw 200 body, or a classified APIError.
func (c *Client) get(ctx context.Context, endpoint, query string) ([]byte, *APIError) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("appid", c.apiKey)
	values.Set("units", "imperial")

	u := fmt.Sprintf("%s?%s", endpoint, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &APIError{Kind: KindInput, Message: fmt.Sprintf("invalid request: %v", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			Kind:    KindNetwork,
			Message: fmt.Sprintf("connection interrupted while reading response: %v", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, query, body)
	}

	return body, nil
}

// classifyTransport maps a transport-level failure onto the network kind,
// distinguishing timeouts from connection failures.
func classifyTransport(err error) *APIError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &APIError{
			Kind:    KindNetwork,
			Message: "request timed out. Please check your internet connection.",
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &APIError{
			Kind:    KindNetwork,
			Message: "network connection error. Please check your internet connection.",
		}
	}

	return &APIError{
		Kind:    KindNetwork,
		Message: fmt.Sprintf("network error: %v", err),
	}
}
