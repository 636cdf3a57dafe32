// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Reservation.TTL)
	assert.Equal(t, 2*time.Minute, cfg.Reservation.SweepInterval)
	assert.Equal(t, 100, cfg.Reservation.SweepBatch)
	assert.Equal(t, 5, cfg.Inventory.MaxRetries)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadHonorsEnvironment(t *testing.T) {
	t.Setenv("RESERVATION_TTL", "5m")
	t.Setenv("INVENTORY_MAX_RETRIES", "7")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Reservation.TTL)
	assert.Equal(t, 7, cfg.Inventory.MaxRetries)
	assert.True(t, cfg.IsProduction())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.JWT.Secret = "short"
	assert.Error(t, cfg.Validate())

	cfg, err = Load()
	require.NoError(t, err)
	cfg.Reservation.TTL = 0
	assert.Error(t, cfg.Validate())

	cfg, err = Load()
	require.NoError(t, err)
	cfg.Inventory.MaxRetries = 0
	assert.Error(t, cfg.Validate())
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	dsn := cfg.GetDatabaseDSN()
	assert.Contains(t, dsn, "host="+cfg.Database.Host)
	assert.Contains(t, dsn, "dbname="+cfg.Database.Name)
	assert.Contains(t, dsn, "sslmode="+cfg.Database.SSLMode)
}
