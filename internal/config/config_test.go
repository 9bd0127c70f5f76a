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

	assert.Equal(t, "healthdb", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "patients", cfg.Mongo.Collection)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Tracing.Enabled)
	assert.False(t, cfg.Seed.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("MONGO_DATABASE", "records")
	t.Setenv("SEED_DEMO_PATIENT", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "records", cfg.Mongo.Database)
	assert.True(t, cfg.Seed.Enabled)
}

func TestLoadIgnoresUnparsableValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("MONGO_CONNECT_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Mongo.ConnectTimeout)
}

func TestValidate(t *testing.T) {
	t.Run("requires the mongo URI", func(t *testing.T) {
		t.Setenv("MONGO_URI", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MONGO_URI is required")
	})

	t.Run("audit database needs a password outside development", func(t *testing.T) {
		t.Setenv("APP_ENV", "staging")
		t.Setenv("DB_AUDIT_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_PASSWORD is required")
	})

	t.Run("refuses disabled SSL in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("DB_AUDIT_ENABLED", "true")
		t.Setenv("DB_PASSWORD", "secret")
		t.Setenv("DB_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_SSLMODE=disable is not allowed in production")
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: 5432, Name: "healthdb", User: "svc",
		Password: "secret", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db user=svc password=secret dbname=healthdb port=5432 sslmode=require Timezone=UTC",
		d.DSN(),
	)
}
