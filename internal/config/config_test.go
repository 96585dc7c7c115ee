package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/kataster/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MustLoadDefaults(t *testing.T) {
	t.Setenv("DB_HOST", "")

	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://uldk.gugik.gov.pl/", cfg.ULDK.BaseURL)
	assert.Equal(t, "GetParcelByIdOrNr", cfg.ULDK.Request)
	assert.Equal(t, 4326, cfg.ULDK.SRID)
	assert.Equal(t, 10*time.Second, cfg.ULDK.Timeout)
	assert.Equal(t, 5, cfg.ULDK.RateLimit)
	assert.Equal(t, 640, cfg.Maps.Width)
	assert.Equal(t, 640, cfg.Maps.Height)
	assert.Equal(t, 50, cfg.Padding)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.False(t, cfg.JournalEnabled())
}

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("KATASTER_ENV", "local")
	t.Setenv("KATASTER_PORT", "9090")
	t.Setenv("KATASTER_ULDK_BASE_URL", "http://localhost:8000/")
	t.Setenv("KATASTER_ULDK_TIMEOUT", "3s")
	t.Setenv("KATASTER_ULDK_RATE_LIMIT", "-1")
	t.Setenv("KATASTER_MAPS_API_KEY", "testAPIKey")
	t.Setenv("KATASTER_MAPS_SIZE", "800x600")
	t.Setenv("KATASTER_PADDING", "24")
	t.Setenv("DB_HOST", "testHost")
	t.Setenv("DB_PORT", "12345")
	t.Setenv("DB_USERNAME", "admin")
	t.Setenv("DB_PASSWORD", "adminpass")
	t.Setenv("DB_NAME", "testName")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "http://localhost:8000/", cfg.ULDK.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.ULDK.Timeout)
	assert.Equal(t, -1, cfg.ULDK.RateLimit)
	assert.Equal(t, "testAPIKey", cfg.Maps.APIKey)
	assert.Equal(t, 800, cfg.Maps.Width)
	assert.Equal(t, 600, cfg.Maps.Height)
	assert.Equal(t, 24, cfg.Padding)
	assert.Equal(t, "testHost", cfg.Database.Host)
	assert.Equal(t, "12345", cfg.Database.Port)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "adminpass", cfg.Database.Password)
	assert.Equal(t, "testName", cfg.Database.Name)
	assert.True(t, cfg.JournalEnabled())
}

func Test_MustLoadFromFile(t *testing.T) {
	defer filet.CleanUp(t)

	// Register restoration first, then clear: godotenv never overrides variables that are already set.
	for _, key := range []string{"KATASTER_ULDK_REQUEST", "KATASTER_ULDK_SRID", "DB_NAME"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	dir := filet.TmpDir(t, "")
	path := filepath.Join(dir, ".env")
	filet.File(t, path, "KATASTER_ULDK_REQUEST=GetParcelById\nKATASTER_ULDK_SRID=2180\nDB_NAME=journal\n")

	cfg := config.MustLoadFrom(path)

	assert.Equal(t, "GetParcelById", cfg.ULDK.Request)
	assert.Equal(t, 2180, cfg.ULDK.SRID)
	assert.Equal(t, "journal", cfg.Database.Name)
}

func TestMustLoadFrom_MissingFile(t *testing.T) {
	assert.Panics(t, func() {
		config.MustLoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	})
}

func TestMustLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		panic string
	}{
		{"port", "KATASTER_PORT", "error_value", "failed to parse port from configuration"},
		{"srid", "KATASTER_ULDK_SRID", "wgs84", "failed to parse ULDK SRID from configuration, must be an integer"},
		{"timeout", "KATASTER_ULDK_TIMEOUT", "ten", "failed to parse ULDK timeout from configuration"},
		{
			"rate limit", "KATASTER_ULDK_RATE_LIMIT", "fast",
			"failed to parse ULDK rate limit from configuration, must be an integer",
		},
		{"map size", "KATASTER_MAPS_SIZE", "640", "failed to parse map size from configuration, expected WIDTHxHEIGHT"},
		{"map size zero", "KATASTER_MAPS_SIZE", "0x640", "failed to parse map size from configuration, expected WIDTHxHEIGHT"},
		{
			"negative padding", "KATASTER_PADDING", "-5",
			"failed to parse padding from configuration, must be a non-negative integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			assert.PanicsWithValue(t, tt.panic, func() {
				config.MustLoad()
			})
		})
	}
}
