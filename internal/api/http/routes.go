package httpapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/weathercap/weathercap/internal/history"
	"github.com/weathercap/weathercap/internal/prefs"
	"github.com/weathercap/weathercap/internal/states"
	"github.com/weathercap/weathercap/internal/summary"
	"github.com/weathercap/weathercap/internal/weather"
)

var validate = validator.New()

// Deps bundles everything the HTTP handlers call into.
type Deps struct {
	Service    *weather.Service
	History    *history.Store
	Prefs      *prefs.Manager
	Summarizer *summary.Summarizer
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return err
		}

		reading, err := deps.Service.Current(c.Context(), loc)
		if err != nil {
			return apiError(err)
		}
		return c.JSON(fiber.Map{
			"location": loc,
			"reading":  reading,
		})
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return err
		}

		var q forecastQuery
		q.Days = c.QueryInt("days", weather.MaxForecastDays)
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		days, err := deps.Service.Forecast(c.Context(), loc, q.Days)
		if err != nil {
			return apiError(err)
		}
		return c.JSON(fiber.Map{
			"location": loc,
			"days":     days,
		})
	})

	v1.Get("/weather/compare", func(c *fiber.Ctx) error {
		locs, err := parseCompareQuery(c)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"results": deps.Service.Compare(c.Context(), locs),
		})
	})

	v1.Get("/weather/summary", func(c *fiber.Ctx) error {
		if !deps.Summarizer.Enabled() {
			return fiber.NewError(fiber.StatusServiceUnavailable, summary.ErrDisabled.Error())
		}

		loc, err := parseLocationQuery(c)
		if err != nil {
			return err
		}

		reading, err := deps.Service.Current(c.Context(), loc)
		if err != nil {
			return apiError(err)
		}

		text, err := deps.Summarizer.Summarize(c.Context(), loc, reading)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.JSON(fiber.Map{
			"location": loc,
			"reading":  reading,
			"summary":  text,
		})
	})

	v1.Get("/states/validate", func(c *fiber.Ctx) error {
		return c.JSON(states.Validate(c.Query("input")))
	})

	v1.Get("/history/recent", func(c *fiber.Ctx) error {
		records, err := deps.History.Recent(c.QueryInt("limit", 10))
		if err != nil {
			return historyError(err)
		}
		return c.JSON(fiber.Map{"records": records})
	})

	v1.Get("/history/city", func(c *fiber.Ctx) error {
		city := strings.TrimSpace(c.Query("city"))
		if city == "" {
			return fiber.NewError(fiber.StatusBadRequest, "city query parameter is required")
		}

		records, err := deps.History.ForCity(city, c.QueryInt("limit", 10))
		if err != nil {
			return historyError(err)
		}
		return c.JSON(fiber.Map{"city": city, "records": records})
	})

	v1.Get("/history/stats", func(c *fiber.Ctx) error {
		city := strings.TrimSpace(c.Query("city"))
		if city == "" {
			return fiber.NewError(fiber.StatusBadRequest, "city query parameter is required")
		}

		stats, err := deps.History.StatsForCity(city)
		if err != nil {
			return historyError(err)
		}
		return c.JSON(stats)
	})

	v1.Get("/prefs", func(c *fiber.Ctx) error {
		return c.JSON(deps.Prefs.Get())
	})

	v1.Put("/prefs", func(c *fiber.Ctx) error {
		var p prefs.Preferences
		if err := c.BodyParser(&p); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid preferences payload")
		}
		if err := deps.Prefs.Set(p); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(deps.Prefs.Get())
	})
}

// locationQuery holds query parameters identifying a location.
type locationQuery struct {
	City    string `validate:"required"`
	State   string
	Country string `validate:"omitempty,len=2,alpha"`
}

type forecastQuery struct {
	Days int `validate:"required,min=1,max=5"`
}

// parseLocationQuery validates query parameters and normalizes the state
// through the states tables, surfacing a suggestion on a near miss.
func parseLocationQuery(c *fiber.Ctx) (weather.Location, error) {
	q := locationQuery{
		City:    strings.TrimSpace(c.Query("city")),
		State:   c.Query("state"),
		Country: strings.TrimSpace(c.Query("country")),
	}
	if err := validate.Struct(q); err != nil {
		return weather.Location{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res := states.Validate(q.State)
	if !res.Valid {
		msg := fmt.Sprintf("unknown state %q", strings.TrimSpace(q.State))
		if res.Suggestion != "" {
			msg = fmt.Sprintf("%s (did you mean %s?)", msg, res.Suggestion)
		}
		return weather.Location{}, fiber.NewError(fiber.StatusBadRequest, msg)
	}

	return weather.Location{
		City:    q.City,
		State:   res.Code,
		Country: strings.ToUpper(q.Country),
	}, nil
}

// parseCompareQuery parses cities=a;b;c where each entry is
// city[,state][,country].
func parseCompareQuery(c *fiber.Ctx) ([]weather.Location, error) {
	raw := c.Query("cities")
	if strings.TrimSpace(raw) == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cities query parameter is required")
	}

	var locs []weather.Location
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ",")
		loc := weather.Location{City: strings.TrimSpace(parts[0])}
		if len(parts) > 1 {
			res := states.Validate(parts[1])
			if !res.Valid {
				return nil, fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("entry %q has unknown state %q", entry, strings.TrimSpace(parts[1])))
			}
			loc.State = res.Code
		}
		if len(parts) > 2 {
			loc.Country = strings.ToUpper(strings.TrimSpace(parts[2]))
		}
		locs = append(locs, loc)
	}

	if len(locs) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cities query parameter is empty")
	}
	return locs, nil
}

// apiError maps the weather error taxonomy onto HTTP statuses. Not-found
// keeps its own status so clients can render a "city not found" message
// instead of a generic failure.
func apiError(err error) error {
	var apiErr *weather.APIError
	if !errors.As(err, &apiErr) {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	status := fiber.StatusBadGateway
	switch apiErr.Kind {
	case weather.KindInput:
		status = fiber.StatusBadRequest
	case weather.KindNotFound:
		status = fiber.StatusNotFound
	case weather.KindRateLimit:
		status = fiber.StatusTooManyRequests
	case weather.KindNetwork:
		status = fiber.StatusGatewayTimeout
	case weather.KindAuth, weather.KindProvider, weather.KindConfiguration:
		status = fiber.StatusBadGateway
	}
	return fiber.NewError(status, apiErr.Message)
}

func historyError(err error) error {
	if errors.Is(err, history.ErrNoRecords) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather history")
}
