package repository_test

import (
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/UnknownOlympus/kataster/internal/models"
	"github.com/UnknownOlympus/kataster/internal/repository"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recentLookupsQuery = `
		SELECT id, identifier, status, points, error_message, duration_ms, created_at
		FROM parcel_lookups
		ORDER BY created_at DESC, id DESC
		LIMIT $1;
	`

var recordColumns = []string{"id", "identifier", "status", "points", "error_message", "duration_ms", "created_at"}

func TestRecentLookups(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	limit := 10
	createdAt := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	t.Run("error - query recent lookups", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(recentLookupsQuery)).
			WithArgs(limit).
			WillReturnError(assert.AnError)

		records, err := repo.RecentLookups(ctx, limit)

		require.Nil(t, records)
		require.ErrorContains(t, err, "failed to query recent lookups")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - scan lookup record", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(recentLookupsQuery)).
			WithArgs(limit).
			WillReturnRows(
				pgxmock.NewRows(recordColumns).AddRow("invalid_id", "id", "success", 5, "", int64(10), createdAt),
			)

		records, err := repo.RecentLookups(ctx, limit)

		require.Nil(t, records)
		require.ErrorContains(t, err, "failed to scan lookup record")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - unknown status", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(recentLookupsQuery)).
			WithArgs(limit).
			WillReturnRows(
				pgxmock.NewRows(recordColumns).AddRow(int64(1), "id", "exploded", 0, "", int64(10), createdAt),
			)

		records, err := repo.RecentLookups(ctx, limit)

		require.Nil(t, records)
		require.ErrorContains(t, err, `unknown status "exploded"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - rows error", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(recentLookupsQuery)).
			WithArgs(limit).
			WillReturnRows(
				pgxmock.NewRows(recordColumns).
					AddRow(int64(1), "id", "success", 5, "", int64(10), createdAt).
					RowError(1, assert.AnError),
			)

		records, err := repo.RecentLookups(ctx, limit)

		require.Nil(t, records)
		require.ErrorContains(t, err, "failed to read row")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - fetch recent lookups", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(recentLookupsQuery)).
			WithArgs(limit).
			WillReturnRows(
				pgxmock.NewRows(recordColumns).
					AddRow(int64(2), "nonexistent", "not_found", 0, "parcel not found", int64(120), createdAt).
					AddRow(int64(1), "123456_1.0001.78/2", "success", 5, "", int64(250), createdAt),
			)

		records, err := repo.RecentLookups(ctx, limit)

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, models.LookupRecord{
			ID:         2,
			Identifier: "nonexistent",
			Status:     models.LookupNotFound,
			Error:      "parcel not found",
			Duration:   120 * time.Millisecond,
			CreatedAt:  createdAt,
		}, records[0])
		assert.Equal(t, models.LookupSuccess, records[1].Status)
		assert.Equal(t, 5, records[1].Points)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecordLookup(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	record := models.LookupRecord{
		Identifier: "123456_1.0001.78/2",
		Status:     models.LookupSuccess,
		Points:     5,
		Duration:   1500 * time.Millisecond,
	}
	query := `
		INSERT INTO parcel_lookups (identifier, status, points, error_message, duration_ms)
		VALUES ($1, $2, $3, $4, $5);
	`

	t.Run("error - insert lookup", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(query)).
			WithArgs(record.Identifier, "success", 5, "", int64(1500)).
			WillReturnError(assert.AnError)

		err = repo.RecordLookup(ctx, record)

		require.ErrorContains(t, err, "failed to insert parcel lookup")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - insert lookup", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(query)).
			WithArgs(record.Identifier, "success", 5, "", int64(1500)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err = repo.RecordLookup(ctx, record)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEnsureSchema(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()

	t.Run("error - create table", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS parcel_lookups").WillReturnError(assert.AnError)

		err = repo.EnsureSchema(ctx)

		require.ErrorContains(t, err, "failed to create parcel_lookups table")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - create table", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS parcel_lookups").
			WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

		require.NoError(t, repo.EnsureSchema(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
