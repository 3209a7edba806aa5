package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabrurgoods/storefront/pkg/config"
	"github.com/mabrurgoods/storefront/pkg/logger"
)

func TestOpenSnapshotSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"p1","name":"Ihram Towel Set","price":150000}]`), 0o600))

	src, err := Open(context.Background(), config.CatalogConfig{SnapshotPath: path}, logger.Nop())
	require.NoError(t, err)

	snap, ok := src.(*Snapshot)
	require.True(t, ok)
	assert.Equal(t, []string{"p1"}, snap.IDs())
}

func TestOpenMissingSnapshotYieldsEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")

	src, err := Open(context.Background(), config.CatalogConfig{SnapshotPath: path}, logger.Nop())
	require.NoError(t, err)

	_, found, err := src.FetchProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOpenRejectsCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))

	_, err := Open(context.Background(), config.CatalogConfig{SnapshotPath: path}, logger.Nop())
	assert.Error(t, err)
}

func TestOpenRemoteSource(t *testing.T) {
	src, err := Open(context.Background(), config.CatalogConfig{
		BaseURL:    "https://catalog.example.com/v1/",
		APIKey:     "secret",
		MaxRetries: 1,
		CacheSize:  8,
	}, nil)
	require.NoError(t, err)

	client, ok := src.(*Client)
	require.True(t, ok)
	assert.Equal(t, "https://catalog.example.com/v1", client.baseURL)
	assert.Equal(t, "secret", client.apiKey)
	assert.EqualValues(t, 1, client.maxRetries)
}
