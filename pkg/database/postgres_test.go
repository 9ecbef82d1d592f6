package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsatya/ved/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	return &config.Config{
		Database: config.DatabaseConfig{
			URL:             url,
			MaxConns:        2,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: time.Minute,
		},
	}
}

func TestNew_InvalidURL(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{URL: "postgres://%zz"}}

	db, err := New(context.Background(), cfg)
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "failed to parse database URL")
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)

	db, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, db.Ping(ctx))
}

func TestHealthCheck(t *testing.T) {
	cfg := testConfig(t)

	db, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := db.HealthCheck(ctx)
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Equal(t, int32(2), status.Stats.MaxConns)
}
