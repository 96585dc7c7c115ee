// Package api exposes parcel lookups, the lookup journal and the monitoring
// endpoints over HTTP.
package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/kataster/internal/metrics"
	"github.com/UnknownOlympus/kataster/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/prometheus/client_golang/prometheus"
)

// Parcels is the part of the parcel service the API serves.
type Parcels interface {
	Lookup(ctx context.Context, identifier string) models.LookupResult
	RecentLookups(ctx context.Context, limit int) ([]models.LookupRecord, error)
}

// Pinger reports database health. A nil Pinger means the journal is disabled.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators of the HTTP handlers.
type Dependencies struct {
	Parcels  Parcels
	DB       Pinger
	Gatherer prometheus.Gatherer
	Metrics  *metrics.Metrics
	Log      *slog.Logger
	// LookupTimeout bounds a single parcel request, including waiting for the rate limiter.
	LookupTimeout time.Duration
}

const (
	defaultLookupTimeout = 30 * time.Second
	readTimeout          = 5 * time.Second
	writeTimeout         = 35 * time.Second
)

// NewApp builds the fiber application with all routes registered.
func NewApp(deps *Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:           readTimeout,
		WriteTimeout:          writeTimeout,
		AppName:               "kataster",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	SetupRoutes(app, deps)

	return app
}

// SetupRoutes registers the API routes on app.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	lookupTimeout := deps.LookupTimeout
	if lookupTimeout <= 0 {
		lookupTimeout = defaultLookupTimeout
	}

	app.Use(requestid.New())
	app.Use(MetricsMiddleware(deps.Metrics))
	app.Use(AccessLogMiddleware(deps.Log))

	app.Get("/healthz", HealthHandler(deps))
	app.Get("/metrics", MetricsHandler(deps.Gatherer))

	v1 := app.Group("/v1")
	v1.Get("/parcels/*", timeout.NewWithContext(ParcelHandler(deps), lookupTimeout))
	v1.Get("/lookups", LookupsHandler(deps))
}
