package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabrurgoods/storefront/internal/session"
	"github.com/mabrurgoods/storefront/pkg/config"
	"github.com/mabrurgoods/storefront/pkg/kvstore"
	"github.com/mabrurgoods/storefront/pkg/logger"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App:     config.AppConfig{Env: "dev"},
		Storage: config.StorageConfig{Driver: config.StorageDriverSQLite},
		DB:      config.DBConfig{DSN: filepath.Join(t.TempDir(), "guest.db"), MaxOpenConns: 1},
	}
}

func TestStatusAndPurge(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)

	var out bytes.Buffer
	require.NoError(t, run(ctx, cfg, logger.Nop(), "up", &out))
	assert.Contains(t, out.String(), "driver=sqlite")

	storage, err := kvstore.Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, storage.Set(ctx, session.CartStorageKey, `{"schemaVersion":"1.0","items":[]}`))
	require.NoError(t, storage.Close())

	out.Reset()
	require.NoError(t, run(ctx, cfg, logger.Nop(), "status", &out))
	assert.Contains(t, out.String(), "guest-cart: stored=true")
	assert.Contains(t, out.String(), "guest-wishlist: stored=false")

	out.Reset()
	require.NoError(t, run(ctx, cfg, logger.Nop(), "purge", &out))
	out.Reset()
	require.NoError(t, run(ctx, cfg, logger.Nop(), "status", &out))
	assert.Contains(t, out.String(), "guest-cart: stored=false")
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	err := run(context.Background(), sqliteConfig(t), logger.Nop(), "down", &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown -cmd value")
}
