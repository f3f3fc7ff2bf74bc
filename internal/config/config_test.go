package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("BOOKING_ID_PREFIX", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, defaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, "EF", cfg.BookingIDPrefix)
	assert.Equal(t, 5, cfg.IdentifierRetries)
	assert.Equal(t, 10*time.Second, cfg.RelayInterval)
	assert.Equal(t, "Asia/Kolkata", cfg.Location.String())
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("RELAY_INTERVAL", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "RELAY_INTERVAL")
}

func TestLoad_ProdRequiresSecretAndPostgres(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "real-secret")
	t.Setenv("DATABASE_URL", "local.db")
	_, err = Load()
	assert.ErrorContains(t, err, "PostgreSQL")

	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, IsProdLike(cfg.AppEnv))
}

func TestLoad_RetriesMustBePositive(t *testing.T) {
	t.Setenv("BOOKING_ID_RETRIES", "0")

	_, err := Load()
	assert.ErrorContains(t, err, "BOOKING_ID_RETRIES")
}
