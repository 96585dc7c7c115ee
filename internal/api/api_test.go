package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/UnknownOlympus/kataster/internal/api"
	"github.com/UnknownOlympus/kataster/internal/metrics"
	"github.com/UnknownOlympus/kataster/internal/models"
	"github.com/UnknownOlympus/kataster/internal/screen"
	"github.com/UnknownOlympus/kataster/internal/uldk"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockParcels struct {
	lookupFn func(ctx context.Context, identifier string) models.LookupResult
	recentFn func(ctx context.Context, limit int) ([]models.LookupRecord, error)
}

func (m *mockParcels) Lookup(ctx context.Context, identifier string) models.LookupResult {
	return m.lookupFn(ctx, identifier)
}

func (m *mockParcels) RecentLookups(ctx context.Context, limit int) ([]models.LookupRecord, error) {
	return m.recentFn(ctx, limit)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var square = models.Polygon{
	{Longitude: 21.0, Latitude: 52.0},
	{Longitude: 21.1, Latitude: 52.0},
	{Longitude: 21.1, Latitude: 52.1},
	{Longitude: 21.0, Latitude: 52.0},
}

func setupApp(t *testing.T, parcels api.Parcels, db api.Pinger) (*fiber.App, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	deps := &api.Dependencies{
		Parcels:  parcels,
		DB:       db,
		Gatherer: reg,
		Metrics:  metrics.NewMetrics(reg),
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return api.NewApp(deps), reg
}

func decodeError(t *testing.T, body io.Reader) api.APIError {
	t.Helper()
	var apiErr api.APIError
	require.NoError(t, json.NewDecoder(body).Decode(&apiErr))
	return apiErr
}

func TestParcelHandler(t *testing.T) {
	t.Run("success returns geojson", func(t *testing.T) {
		parcels := &mockParcels{lookupFn: func(_ context.Context, id string) models.LookupResult {
			assert.Equal(t, "141201_1.0001.6509", id)
			return models.LookupResult{Status: models.LookupSuccess, Polygon: square}
		}}
		app, _ := setupApp(t, parcels, nil)

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/parcels/141201_1.0001.6509", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/geo+json", resp.Header.Get(fiber.HeaderContentType))

		var feature models.GeoJSONFeature
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&feature))
		assert.Equal(t, "Feature", feature.Type)
		assert.Equal(t, "Polygon", feature.Geometry.Type)
		require.Len(t, feature.Geometry.Coordinates, 1)
		assert.Len(t, feature.Geometry.Coordinates[0], 4)
		assert.Equal(t, [2]float64{21.0, 52.0}, feature.Geometry.Coordinates[0][0])
	})

	t.Run("success as wkt", func(t *testing.T) {
		parcels := &mockParcels{lookupFn: func(context.Context, string) models.LookupResult {
			return models.LookupResult{Status: models.LookupSuccess, Polygon: square}
		}}
		app, _ := setupApp(t, parcels, nil)

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/parcels/abc?format=wkt", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "POLYGON((21 52, 21.1 52, 21.1 52.1, 21 52))", string(body))
	})

	t.Run("not found", func(t *testing.T) {
		parcels := &mockParcels{lookupFn: func(context.Context, string) models.LookupResult {
			return models.LookupResult{Status: models.LookupNotFound, Err: uldk.ErrParcelNotFound}
		}}
		app, _ := setupApp(t, parcels, nil)

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/parcels/XYZ", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		apiErr := decodeError(t, resp.Body)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "not_found", apiErr.Code)
		assert.Equal(t, screen.MessageNotFound, apiErr.Message)
		assert.NotEmpty(t, apiErr.RequestID)
	})

	t.Run("transport error", func(t *testing.T) {
		parcels := &mockParcels{lookupFn: func(context.Context, string) models.LookupResult {
			return models.LookupResult{Status: models.LookupTransportError, Err: uldk.ErrTransport}
		}}
		app, _ := setupApp(t, parcels, nil)

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/parcels/XYZ", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		apiErr := decodeError(t, resp.Body)
		assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "upstream_error", apiErr.Code)
		assert.Equal(t, screen.MessageTransportError, apiErr.Message)
	})

	t.Run("identifier containing a slash", func(t *testing.T) {
		for name, path := range map[string]string{
			"literal": "/v1/parcels/123456_1.0001.78/2",
			"escaped": "/v1/parcels/123456_1.0001.78%2F2",
		} {
			t.Run(name, func(t *testing.T) {
				var got []string
				parcels := &mockParcels{lookupFn: func(_ context.Context, id string) models.LookupResult {
					got = append(got, id)
					return models.LookupResult{Status: models.LookupSuccess, Polygon: square}
				}}
				app, _ := setupApp(t, parcels, nil)

				resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil), -1)
				require.NoError(t, err)
				defer resp.Body.Close()

				assert.Equal(t, fiber.StatusOK, resp.StatusCode)
				assert.Equal(t, []string{"123456_1.0001.78/2"}, got)

				var feature models.GeoJSONFeature
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&feature))
				assert.Equal(t, "123456_1.0001.78/2", feature.Properties["identifier"])
			})
		}
	})

	t.Run("missing identifier", func(t *testing.T) {
		parcels := &mockParcels{lookupFn: func(context.Context, string) models.LookupResult {
			t.Fatal("lookup must not run for a rejected request")
			return models.LookupResult{}
		}}
		app, _ := setupApp(t, parcels, nil)

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/parcels/", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "bad_request", decodeError(t, resp.Body).Code)
	})

	t.Run("unknown format", func(t *testing.T) {
		parcels := &mockParcels{lookupFn: func(context.Context, string) models.LookupResult {
			t.Fatal("lookup must not run for a rejected request")
			return models.LookupResult{}
		}}
		app, _ := setupApp(t, parcels, nil)

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/parcels/abc?format=kml", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "bad_request", decodeError(t, resp.Body).Code)
	})
}

func TestLookupsHandler(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("lists journal", func(t *testing.T) {
		parcels := &mockParcels{recentFn: func(_ context.Context, limit int) ([]models.LookupRecord, error) {
			assert.Equal(t, 5, limit)
			return []models.LookupRecord{{
				Identifier: "abc",
				Status:     models.LookupNotFound,
				Error:      "parcel not found",
				Duration:   1500 * time.Millisecond,
				CreatedAt:  created,
			}}, nil
		}}
		app, _ := setupApp(t, parcels, nil)

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/lookups?limit=5", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		var body struct {
			Data []api.LookupRecordResponse `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.Len(t, body.Data, 1)
		assert.Equal(t, "not_found", body.Data[0].Status)
		assert.Equal(t, int64(1500), body.Data[0].DurationMS)
		assert.Equal(t, "2025-06-01T12:00:00Z", body.Data[0].CreatedAt)
	})

	t.Run("default limit", func(t *testing.T) {
		parcels := &mockParcels{recentFn: func(_ context.Context, limit int) ([]models.LookupRecord, error) {
			assert.Equal(t, 20, limit)
			return []models.LookupRecord{}, nil
		}}
		app, _ := setupApp(t, parcels, nil)

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/lookups", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("limit out of range", func(t *testing.T) {
		app, _ := setupApp(t, &mockParcels{}, nil)

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/lookups?limit=500", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("journal failure", func(t *testing.T) {
		parcels := &mockParcels{recentFn: func(context.Context, int) ([]models.LookupRecord, error) {
			return nil, assert.AnError
		}}
		app, _ := setupApp(t, parcels, nil)

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/lookups", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "internal_error", decodeError(t, resp.Body).Code)
	})
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		db     api.Pinger
		status int
		body   string
	}{
		{"journal disabled", nil, fiber.StatusOK, "OK"},
		{"database up", pingFunc(func(context.Context) error { return nil }), fiber.StatusOK, "OK"},
		{
			"database down", pingFunc(func(context.Context) error { return assert.AnError }),
			fiber.StatusServiceUnavailable, "DB ping failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := setupApp(t, &mockParcels{}, tt.db)

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/healthz", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	parcels := &mockParcels{lookupFn: func(context.Context, string) models.LookupResult {
		return models.LookupResult{Status: models.LookupNotFound, Err: uldk.ErrParcelNotFound}
	}}
	app, reg := setupApp(t, parcels, nil)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/parcels/abc", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	count, err := testutil.GatherAndCount(reg, "kataster_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `kataster_http_requests_total{method="GET",route="/v1/parcels/*",status="404"} 1`)
}
