package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.False(t, cfg.DevTenantHeaders)
	assert.False(t, cfg.IgnoreCancelledConflicts)
	assert.Equal(t, "practice.events", cfg.AMQPExchange)
	assert.Equal(t, 30, cfg.AuthRatePerMin)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:practice.db")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DEV_TENANT_HEADERS", "true")
	t.Setenv("SCHEDULING_IGNORE_CANCELLED", "true")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "file:practice.db", cfg.DBUrl)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.True(t, cfg.DevTenantHeaders)
	assert.True(t, cfg.IgnoreCancelledConflicts)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}
