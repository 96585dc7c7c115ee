package uldk

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Defaults applied by NewProvider when the configuration leaves a field empty.
const (
	DefaultRequest   = "GetParcelByIdOrNr"
	DefaultSRID      = 4326
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5
)

// ProviderConfig holds configuration for creating a ULDK provider.
type ProviderConfig struct {
	BaseURL   string        // Service endpoint, DefaultBaseURL when empty
	Request   string        // ULDK operation name, DefaultRequest when empty
	SRID      int           // Spatial reference of returned geometry, DefaultSRID when zero
	Timeout   time.Duration // Per-request timeout of the HTTP client
	RateLimit int           // Requests per second; negative disables limiting
	Logger    *slog.Logger  // Logger for the provider
}

// NewProvider validates the configuration, fills in defaults and builds a ULDK provider.
//
// Returns an error if the base URL is not an absolute http(s) URL.
func NewProvider(config ProviderConfig) (Provider, error) {
	if config.Logger == nil {
		return nil, errors.New("logger is required for ULDK provider")
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ULDK base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid ULDK base URL: %q", config.BaseURL)
	}

	if config.Request == "" {
		config.Request = DefaultRequest
	}
	if config.SRID == 0 {
		config.SRID = DefaultSRID
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.RateLimit == 0 {
		config.RateLimit = DefaultRateLimit
		config.Logger.Warn("Rate limit for ULDK not set, set a default value", "value", config.RateLimit)
	}

	return NewULDKProvider(
		config.BaseURL,
		config.Request,
		config.SRID,
		config.Timeout,
		newLimiter(config.RateLimit),
		config.Logger,
	), nil
}

func newLimiter(perSecond int) *rate.Limiter {
	if perSecond < 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), perSecond)
}
