// Package config loads the kataster settings from the environment and an optional .env file.
package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the parcel lookup tool.
type Config struct {
	Env      string         // Env is the current environment: local, development, production.
	Port     int            // Port serves the parcel API and the monitoring endpoints.
	ULDK     ULDKConfig     // ULDK holds the parcel registry client settings.
	Maps     MapsConfig     // Maps holds the static map rendering settings.
	Padding  int            // Padding is the edge padding, in pixels, kept around a fitted parcel.
	Database PostgresConfig // Database holds the lookup journal connection settings.
}

// ULDKConfig configures the parcel registry client.
type ULDKConfig struct {
	BaseURL   string
	Request   string
	SRID      int
	Timeout   time.Duration
	RateLimit int // requests per second
}

// MapsConfig configures Google static map rendering. An empty APIKey disables it.
type MapsConfig struct {
	APIKey string
	Width  int
	Height int
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address. Empty disables the journal.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// JournalEnabled reports whether a database was configured for the lookup journal.
func (c *Config) JournalEnabled() bool {
	return c.Database.Host != ""
}

// MustLoad reads .env from the working directory, if present, and loads the configuration.
func MustLoad() *Config {
	_ = godotenv.Load()

	return load()
}

// MustLoadFrom reads the given dotenv files and loads the configuration.
// Unlike MustLoad, a missing file is a configuration error.
func MustLoadFrom(paths ...string) *Config {
	if err := godotenv.Load(paths...); err != nil {
		panic("failed to read env file: " + err.Error())
	}

	return load()
}

func load() *Config {
	v := viper.New()

	v.SetDefault("env", "production")
	v.SetDefault("port", "8080")
	v.SetDefault("uldk.base_url", "https://uldk.gugik.gov.pl/")
	v.SetDefault("uldk.request", "GetParcelByIdOrNr")
	v.SetDefault("uldk.srid", "4326")
	v.SetDefault("uldk.timeout", "10s")
	v.SetDefault("uldk.rate_limit", "5")
	v.SetDefault("maps.api_key", "")
	v.SetDefault("maps.size", "640x640")
	v.SetDefault("padding", "50")
	v.SetDefault("database.port", "5432")

	// KATASTER_ULDK_BASE_URL -> uldk.base_url
	v.SetEnvPrefix("KATASTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The database keeps the unprefixed variables shared with the other UnknownOlympus services.
	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USERNAME")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.name", "DB_NAME")

	port, err := strconv.Atoi(v.GetString("port"))
	if err != nil {
		panic("failed to parse port from configuration")
	}

	srid, err := strconv.Atoi(v.GetString("uldk.srid"))
	if err != nil {
		panic("failed to parse ULDK SRID from configuration, must be an integer")
	}

	timeout, err := time.ParseDuration(v.GetString("uldk.timeout"))
	if err != nil {
		panic("failed to parse ULDK timeout from configuration")
	}

	rateLimit, err := strconv.Atoi(v.GetString("uldk.rate_limit"))
	if err != nil {
		panic("failed to parse ULDK rate limit from configuration, must be an integer")
	}

	width, height, ok := parseSize(v.GetString("maps.size"))
	if !ok {
		panic("failed to parse map size from configuration, expected WIDTHxHEIGHT")
	}

	padding, err := strconv.Atoi(v.GetString("padding"))
	if err != nil || padding < 0 {
		panic("failed to parse padding from configuration, must be a non-negative integer")
	}

	return &Config{
		Env:  v.GetString("env"),
		Port: port,
		ULDK: ULDKConfig{
			BaseURL:   v.GetString("uldk.base_url"),
			Request:   v.GetString("uldk.request"),
			SRID:      srid,
			Timeout:   timeout,
			RateLimit: rateLimit,
		},
		Maps: MapsConfig{
			APIKey: v.GetString("maps.api_key"),
			Width:  width,
			Height: height,
		},
		Padding: padding,
		Database: PostgresConfig{
			Host:     v.GetString("database.host"),
			Port:     v.GetString("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			Name:     v.GetString("database.name"),
		},
	}
}

func parseSize(raw string) (int, int, bool) {
	w, h, found := strings.Cut(strings.ToLower(raw), "x")
	if !found {
		return 0, 0, false
	}

	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil || width <= 0 {
		return 0, 0, false
	}

	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || height <= 0 {
		return 0, 0, false
	}

	return width, height, true
}
