package api

import (
	"net/url"
	"strings"
	"time"

	"github.com/UnknownOlympus/kataster/internal/models"
	"github.com/UnknownOlympus/kataster/internal/screen"
	"github.com/UnknownOlympus/kataster/internal/wkt"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultLookupsLimit = 20
	maxLookupsLimit     = 100
)

// ParcelHandler looks up one parcel. The outline is returned as a GeoJSON
// Feature, or as WKT text with ?format=wkt. Identifiers may contain '/',
// either literal or escaped as %2F.
func ParcelHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier, err := url.PathUnescape(c.Params("*"))
		if err != nil {
			return errBadRequest(c, "identifier is not a valid path segment")
		}
		if identifier == "" {
			return errBadRequest(c, "identifier is required")
		}
		// fiber params alias the request buffer, and the lookup outlives the handler.
		identifier = strings.Clone(identifier)

		format := c.Query("format", "geojson")
		if format != "geojson" && format != "wkt" {
			return errBadRequest(c, "format must be geojson or wkt")
		}

		result := deps.Parcels.Lookup(c.UserContext(), identifier)

		switch result.Status {
		case models.LookupSuccess:
			if format == "wkt" {
				c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
				return c.SendString(wkt.FormatPolygon(result.Polygon))
			}
			return c.JSON(result.Polygon.GeoJSON(identifier), "application/geo+json")
		case models.LookupNotFound:
			return errNotFound(c, screen.MessageNotFound)
		case models.LookupTransportError:
			return errUpstream(c, screen.MessageTransportError)
		default:
			return errInternal(c, "unexpected lookup status")
		}
	}
}

// LookupRecordResponse is one journal entry as served by /v1/lookups.
type LookupRecordResponse struct {
	Identifier string `json:"identifier"`
	Status     string `json:"status"`
	Points     int    `json:"points"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

// LookupsHandler lists the most recent journal entries.
func LookupsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", defaultLookupsLimit)
		if limit < 1 || limit > maxLookupsLimit {
			return errBadRequest(c, "limit must be between 1 and 100")
		}

		records, err := deps.Parcels.RecentLookups(c.UserContext(), limit)
		if err != nil {
			deps.Log.ErrorContext(c.UserContext(), "Failed to list recent lookups", "error", err)
			return errInternal(c, "failed to read lookup journal")
		}

		data := make([]LookupRecordResponse, 0, len(records))
		for _, record := range records {
			data = append(data, LookupRecordResponse{
				Identifier: record.Identifier,
				Status:     record.Status.String(),
				Points:     record.Points,
				Error:      record.Error,
				DurationMS: record.Duration.Milliseconds(),
				CreatedAt:  record.CreatedAt.UTC().Format(time.RFC3339),
			})
		}

		return c.JSON(fiber.Map{"data": data})
	}
}

// HealthHandler reports OK, or 503 when the journal database does not answer.
func HealthHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Log.DebugContext(c.UserContext(), "Performing health checks...")
		if deps.DB != nil {
			if err := deps.DB.Ping(c.UserContext()); err != nil {
				deps.Log.WarnContext(c.UserContext(), "Health check failed", "error", err)
				return c.Status(fiber.StatusServiceUnavailable).SendString("DB ping failed")
			}
		}

		return c.SendString("OK")
	}
}
