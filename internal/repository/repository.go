package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/kataster/internal/models"
)

// Repository is the lookup journal backed by PostgreSQL.
type Repository struct {
	db  Database
	log *slog.Logger
}

// Interface is the journal contract used by the parcel service and the HTTP API.
type Interface interface {
	RecordLookup(ctx context.Context, record models.LookupRecord) error
	RecentLookups(ctx context.Context, limit int) ([]models.LookupRecord, error)
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
