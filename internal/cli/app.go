package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/UnknownOlympus/kataster/internal/config"
	"github.com/UnknownOlympus/kataster/internal/metrics"
	"github.com/UnknownOlympus/kataster/internal/repository"
	"github.com/UnknownOlympus/kataster/internal/service"
	"github.com/UnknownOlympus/kataster/internal/uldk"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// application holds everything a command needs to run lookups.
type application struct {
	cfg      *config.Config
	log      *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	pool     *pgxpool.Pool // nil when the journal is disabled
	parcels  *service.ParcelService
}

// newApplication wires the ULDK provider, the optional journal and the parcel service.
func newApplication(ctx context.Context, cfg *config.Config, logOut io.Writer) (*application, error) {
	logger := setupLogger(cfg.Env, logOut)

	// Create a separate registry for metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	provider, err := uldk.NewProvider(uldk.ProviderConfig{
		BaseURL:   cfg.ULDK.BaseURL,
		Request:   cfg.ULDK.Request,
		SRID:      cfg.ULDK.SRID,
		Timeout:   cfg.ULDK.Timeout,
		RateLimit: cfg.ULDK.RateLimit,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ULDK provider: %w", err)
	}

	app := &application{cfg: cfg, log: logger, registry: reg, metrics: appMetrics}

	var journal repository.Interface
	if cfg.JournalEnabled() {
		app.pool, err = repository.NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to journal database: %w", err)
		}

		repo := repository.NewRepository(app.pool, logger)
		if err = repo.EnsureSchema(ctx); err != nil {
			app.pool.Close()
			return nil, err
		}
		journal = repo
		logger.InfoContext(ctx, "Lookup journal enabled", "host", cfg.Database.Host)
	}

	app.parcels = service.NewParcelService(logger, provider, journal, appMetrics)

	return app, nil
}

// Close releases the journal connection pool.
func (a *application) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
