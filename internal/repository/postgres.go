package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/UnknownOlympus/kataster/internal/models"
)

// EnsureSchema creates the journal table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS parcel_lookups (
			id            BIGSERIAL PRIMARY KEY,
			identifier    TEXT        NOT NULL,
			status        TEXT        NOT NULL,
			points        INTEGER     NOT NULL DEFAULT 0,
			error_message TEXT        NOT NULL DEFAULT '',
			duration_ms   BIGINT      NOT NULL DEFAULT 0,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create parcel_lookups table: %w", err)
	}

	return nil
}

// RecordLookup appends one completed lookup to the journal.
// It returns an error if the insert fails.
func (r *Repository) RecordLookup(ctx context.Context, record models.LookupRecord) error {
	query := `
		INSERT INTO parcel_lookups (identifier, status, points, error_message, duration_ms)
		VALUES ($1, $2, $3, $4, $5);
	`

	_, err := r.db.Exec(
		ctx,
		query,
		record.Identifier,
		record.Status.String(),
		record.Points,
		record.Error,
		record.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert parcel lookup: %w", err)
	}

	r.log.DebugContext(ctx, "Lookup recorded in journal", "identifier", record.Identifier, "status", record.Status)

	return nil
}

// RecentLookups retrieves the newest journal entries, newest first.
//
// Parameters:
// - ctx: The context for the operation, allowing for cancellation and timeout.
// - limit: The maximum number of entries to retrieve.
//
// Returns:
// - A slice of models.LookupRecord ordered by creation time, newest first.
// - An error if the query fails, a row cannot be scanned or holds an unknown status.
func (r *Repository) RecentLookups(ctx context.Context, limit int) ([]models.LookupRecord, error) {
	var records []models.LookupRecord
	query := `
		SELECT id, identifier, status, points, error_message, duration_ms, created_at
		FROM parcel_lookups
		ORDER BY created_at DESC, id DESC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent lookups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			record     models.LookupRecord
			status     string
			durationMS int64
		)
		if errScan := rows.Scan(
			&record.ID,
			&record.Identifier,
			&status,
			&record.Points,
			&record.Error,
			&durationMS,
			&record.CreatedAt,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan lookup record: %w", errScan)
		}

		parsed, ok := models.ParseLookupStatus(status)
		if !ok {
			return nil, fmt.Errorf("failed to scan lookup record: unknown status %q", status)
		}
		record.Status = parsed
		record.Duration = time.Duration(durationMS) * time.Millisecond

		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return records, nil
}
