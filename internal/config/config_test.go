package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDSNPrefersURL(t *testing.T) {
	cfg := DatabaseConfig{URL: "postgres://u:p@db:5432/app", Host: "ignored"}
	assert.Equal(t, "postgres://u:p@db:5432/app?sslmode=require", cfg.DSN())

	cfg.URL = "postgres://u:p@db:5432/app?connect_timeout=5"
	assert.Equal(t, "postgres://u:p@db:5432/app?connect_timeout=5&sslmode=require", cfg.DSN())

	cfg.URL = "postgres://u:p@db:5432/app?sslmode=disable"
	assert.Equal(t, "postgres://u:p@db:5432/app?sslmode=disable", cfg.DSN())
}

func TestDSNFromParts(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "localhost", Port: "5432", Name: "supplier_intel",
		User: "postgres", Password: "secret", SSLMode: "disable", Timezone: "UTC",
	}
	assert.Equal(t,
		"host=localhost user=postgres password=secret dbname=supplier_intel port=5432 sslmode=disable TimeZone=UTC",
		cfg.DSN())
}

func TestSweepEnabled(t *testing.T) {
	assert.False(t, (&IdempotencyConfig{TTL: time.Hour}).SweepEnabled())
	assert.False(t, (&IdempotencyConfig{SweepInterval: time.Minute}).SweepEnabled())
	assert.True(t, (&IdempotencyConfig{TTL: time.Hour, SweepInterval: time.Minute}).SweepEnabled())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WORKFLOW_AUTH_TOKEN", "s3cret")
	t.Setenv("IDEMPOTENCY_BACKEND", "BOLT")

	cfg := Load()
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "s3cret", cfg.Workflow.AuthToken)
	assert.Equal(t, IdempotencyBackendBolt, cfg.Idempotency.Backend)
	assert.Equal(t, 168*time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, time.Duration(0), cfg.Idempotency.SweepInterval)
	assert.False(t, cfg.Idempotency.SweepEnabled())
}
