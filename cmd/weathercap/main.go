package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/weathercap/weathercap/internal/api/http"
	"github.com/weathercap/weathercap/internal/config"
	"github.com/weathercap/weathercap/internal/history"
	"github.com/weathercap/weathercap/internal/prefs"
	"github.com/weathercap/weathercap/internal/scheduler"
	"github.com/weathercap/weathercap/internal/summary"
	"github.com/weathercap/weathercap/internal/weather"
)

func main() {
	// Load configuration; the API key is resolved here and handed to the
	// client explicitly.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Weather provider client; key format is validated eagerly so a
	// malformed key fails at startup, not on the first lookup.
	client, err := weather.NewClient(nil, cfg.WeatherAPIKey)
	if err != nil {
		log.Fatalf("failed to configure weather client: %v", err)
	}

	// CSV-backed history of successful lookups.
	hist, err := history.NewStore(cfg.HistoryFile)
	if err != nil {
		log.Fatalf("failed to open weather history: %v", err)
	}

	// User preferences (theme, default city).
	pm, err := prefs.NewManager(cfg.PrefsFile)
	if err != nil {
		log.Fatalf("failed to load preferences: %v", err)
	}

	// Core service orchestrating the client and history.
	service := weather.NewService(client, hist)

	// Scheduler keeping tracked locations fresh.
	sched := scheduler.New(cfg.Locations, cfg.RefreshInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weathercap",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weathercap",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Service:    service,
		History:    hist,
		Prefs:      pm,
		Summarizer: summary.New(cfg.OpenAIKey),
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
