package uldk

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/UnknownOlympus/kataster/internal/models"
	"github.com/UnknownOlympus/kataster/internal/wkt"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public ULDK (Usługa Lokalizacji Działek Katastralnych) endpoint.
const DefaultBaseURL = "https://uldk.gugik.gov.pl/"

// ULDKProvider implements the Provider interface on top of the GUGiK ULDK web service.
// It asks for the parcel geometry as WKT in EPSG:4326 and extracts the outline from the
// plain-text answer.
type ULDKProvider struct {
	client    HTTPClient    // HTTP client for making requests
	baseURL   string        // Base URL for the ULDK service
	request   string        // ULDK operation name, e.g. GetParcelByIdOrNr
	srid      int           // Spatial reference of the returned geometry
	log       *slog.Logger  // Logger for logging operations
	limiter   *rate.Limiter // Rate limiter protecting the public endpoint
	userAgent string
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewULDKProvider creates a provider with its own HTTP client bounded by timeout.
func NewULDKProvider(baseURL, request string, srid int, timeout time.Duration, limiter *rate.Limiter, log *slog.Logger) *ULDKProvider {
	return NewULDKProviderWithClient(&http.Client{Timeout: timeout}, baseURL, request, srid, limiter, log)
}

// NewULDKProviderWithClient creates a provider with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewULDKProviderWithClient(
	client HTTPClient,
	baseURL, request string,
	srid int,
	limiter *rate.Limiter,
	log *slog.Logger,
) *ULDKProvider {
	return &ULDKProvider{
		client:    client,
		baseURL:   baseURL,
		request:   request,
		srid:      srid,
		log:       log,
		limiter:   limiter,
		userAgent: "Kataster/1.0 (https://github.com/UnknownOlympus/kataster)",
	}
}

// Lookup fetches the parcel geometry for identifier and parses its outline.
//
// Exactly one request is made. The identifier is forwarded as is, so malformed or empty
// identifiers are classified by the service's answer like any other input. The HTTP status
// is logged but not used for classification: only the shape of the body decides between
// a polygon and ErrParcelNotFound.
func (up *ULDKProvider) Lookup(ctx context.Context, identifier string) (models.Polygon, error) {
	up.log.DebugContext(ctx, "Looking up parcel in ULDK", "identifier", identifier)

	body, err := up.fetchGeometry(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if !wkt.HasCoordinateList(body) {
		up.log.InfoContext(ctx, "ULDK returned no geometry", "identifier", identifier, "body", body)
		return nil, fmt.Errorf("%w: %s", ErrParcelNotFound, identifier)
	}

	polygon, err := wkt.ExtractPolygon(body)
	if err != nil {
		up.log.WarnContext(ctx, "ULDK returned unparsable geometry", "identifier", identifier, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrParcelNotFound, err)
	}

	up.log.DebugContext(ctx, "ULDK found parcel", "identifier", identifier, "points", len(polygon))

	return polygon, nil
}

// fetchGeometry performs the single HTTP round trip and returns the body as text.
// Every failure is wrapped in ErrTransport.
func (up *ULDKProvider) fetchGeometry(ctx context.Context, identifier string) (string, error) {
	if err := up.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limit wait: %w", ErrTransport, err)
	}

	reqURL, err := url.Parse(up.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse base URL: %w", ErrTransport, err)
	}

	query := reqURL.Query()
	query.Set("request", up.request)
	query.Set("id", identifier)
	query.Set("result", "geom_wkt")
	query.Set("srid", strconv.Itoa(up.srid))
	reqURL.RawQuery = query.Encode()

	up.log.DebugContext(ctx, "ULDK request URL", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %w", ErrTransport, err)
	}
	req.Header.Set("User-Agent", up.userAgent)
	req.Header.Set("Accept", "text/plain")

	resp, err := up.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute lookup request: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response body: %w", ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		up.log.WarnContext(ctx, "ULDK answered with non-OK status", "status", resp.StatusCode, "body", string(body))
	}

	if !utf8.Valid(body) {
		return "", fmt.Errorf("%w: response body is not text", ErrTransport)
	}

	up.log.DebugContext(ctx, "ULDK raw response", "body", string(body))

	return string(body), nil
}
