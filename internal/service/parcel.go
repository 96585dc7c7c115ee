package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/kataster/internal/metrics"
	"github.com/UnknownOlympus/kataster/internal/models"
	"github.com/UnknownOlympus/kataster/internal/repository"
	"github.com/UnknownOlympus/kataster/internal/uldk"
)

// ParcelService turns provider answers into classified lookup results,
// tracks them in metrics and records them in the journal.
type ParcelService struct {
	log      *slog.Logger         // Logger for logging service activities
	provider uldk.Provider        // Provider performing the remote lookup
	journal  repository.Interface // Lookup journal, nil when disabled
	metrics  *metrics.Metrics     // Metrics for tracking service performance
}

// NewParcelService creates a new instance of ParcelService.
// journal may be nil, in which case lookups are not recorded.
func NewParcelService(
	log *slog.Logger,
	provider uldk.Provider,
	journal repository.Interface,
	metrics *metrics.Metrics,
) *ParcelService {
	return &ParcelService{
		log:      log,
		provider: provider,
		journal:  journal,
		metrics:  metrics,
	}
}

// Lookup performs exactly one remote lookup for identifier and classifies the outcome.
// It never returns a bare error: failures are carried in the result.
func (ps *ParcelService) Lookup(ctx context.Context, identifier string) models.LookupResult {
	ps.metrics.InFlight.Inc()
	startTime := time.Now()
	polygon, err := ps.provider.Lookup(ctx, identifier)
	duration := time.Since(startTime)
	ps.metrics.InFlight.Dec()
	ps.metrics.RequestSeconds.Observe(duration.Seconds())

	result := classify(polygon, err)
	ps.metrics.LookupsTotal.WithLabelValues(result.Status.String()).Inc()

	switch result.Status {
	case models.LookupSuccess:
		ps.metrics.PolygonPoints.Observe(float64(len(result.Polygon)))
		ps.log.InfoContext(ctx, "Parcel found", "identifier", identifier, "points", len(result.Polygon))
	case models.LookupNotFound:
		ps.log.InfoContext(ctx, "Parcel not found", "identifier", identifier, "error", err)
	case models.LookupTransportError:
		ps.log.ErrorContext(ctx, "Parcel lookup failed", "identifier", identifier, "error", err)
	}

	ps.record(ctx, identifier, result, duration)

	return result
}

// RecentLookups lists journal entries, or nothing when the journal is disabled.
func (ps *ParcelService) RecentLookups(ctx context.Context, limit int) ([]models.LookupRecord, error) {
	if ps.journal == nil {
		return []models.LookupRecord{}, nil
	}
	return ps.journal.RecentLookups(ctx, limit)
}

func (ps *ParcelService) record(ctx context.Context, identifier string, result models.LookupResult, duration time.Duration) {
	if ps.journal == nil {
		return
	}

	record := models.LookupRecord{
		Identifier: identifier,
		Status:     result.Status,
		Points:     len(result.Polygon),
		Duration:   duration,
	}
	if result.Err != nil {
		record.Error = result.Err.Error()
	}

	// The caller's context may already be cancelled for transport errors.
	if err := ps.journal.RecordLookup(context.WithoutCancel(ctx), record); err != nil {
		ps.metrics.JournalErrors.Inc()
		ps.log.ErrorContext(ctx, "Could not record lookup in journal", "identifier", identifier, "error", err)
	}
}

// classify maps a provider answer onto the lookup taxonomy. Anything that is not
// explicitly a not-found answer counts as a transport failure.
func classify(polygon models.Polygon, err error) models.LookupResult {
	switch {
	case err == nil && !polygon.Empty():
		return models.LookupResult{Status: models.LookupSuccess, Polygon: polygon}
	case err == nil:
		return models.LookupResult{Status: models.LookupNotFound, Err: uldk.ErrParcelNotFound}
	case errors.Is(err, uldk.ErrParcelNotFound):
		return models.LookupResult{Status: models.LookupNotFound, Err: err}
	default:
		return models.LookupResult{Status: models.LookupTransportError, Err: err}
	}
}
