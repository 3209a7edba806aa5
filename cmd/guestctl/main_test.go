package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabrurgoods/storefront/internal/navigation"
	"github.com/mabrurgoods/storefront/internal/session"
	"github.com/mabrurgoods/storefront/pkg/config"
	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
)

type cartOutput struct {
	Lines []session.CartLine `json:"lines"`
	Count int64              `json:"count"`
}

func setGuestEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(snapshot, []byte(`[{"id":"p1","name":"Ihram Towel Set","price":150000}]`), 0o600))

	t.Setenv(config.EnvAppEnv, "dev")
	t.Setenv(config.EnvStorageDriver, config.StorageDriverSQLite)
	t.Setenv(config.EnvDBDSN, filepath.Join(dir, "guest.db"))
	t.Setenv(config.EnvStorageNamespace, "")
	t.Setenv(config.EnvCatalogSnapshot, snapshot)
	t.Setenv(config.EnvCatalogBaseURL, "")
	t.Setenv(config.EnvCheckoutPhone, "")
}

func runGuestctl(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestCartPersistsAcrossRuns(t *testing.T) {
	setGuestEnv(t)

	_, err := runGuestctl(t, "-cmd=add", "-product=p1", "-size=M", "-color=Black", "-qty=2")
	require.NoError(t, err)
	_, err = runGuestctl(t, "-cmd=add", "-product=p1", "-size=M", "-color=Black", "-qty=1")
	require.NoError(t, err)

	out, err := runGuestctl(t, "-cmd=cart")
	require.NoError(t, err)
	var cart cartOutput
	require.NoError(t, json.Unmarshal([]byte(out), &cart))
	assert.Equal(t, []session.CartLine{{ProductID: "p1", Size: "M", Color: "Black", Quantity: 3}}, cart.Lines)
	assert.EqualValues(t, 3, cart.Count)
}

func TestRunReturnsCommandErrors(t *testing.T) {
	setGuestEnv(t)

	_, err := runGuestctl(t, "-cmd=add", "-product=p1", "-qty=0")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = runGuestctl(t, "-cmd=checkout")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "empty cart")

	_, err = runGuestctl(t, "-cmd=dance")
	assert.ErrorContains(t, err, "unknown -cmd value")

	_, err = runGuestctl(t, "-qty=many")
	assert.Error(t, err)

	out, err := runGuestctl(t, "-cmd=cart")
	require.NoError(t, err, "storage stays usable after failed runs")
	assert.Contains(t, out, `"count": 0`)
}

func TestCheckoutClearsCart(t *testing.T) {
	setGuestEnv(t)

	_, err := runGuestctl(t, "-cmd=add", "-product=p1", "-size=M", "-color=Black", "-qty=2")
	require.NoError(t, err)

	out, err := runGuestctl(t, "-cmd=checkout")
	require.NoError(t, err)
	var handoff struct {
		Link string `json:"link"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &handoff))
	assert.True(t, strings.HasPrefix(handoff.Link, "https://wa.me/6281234567890?text="), handoff.Link)
	assert.Contains(t, handoff.Link, "Rp%20300.000")

	out, err = runGuestctl(t, "-cmd=cart")
	require.NoError(t, err)
	var cart cartOutput
	require.NoError(t, json.Unmarshal([]byte(out), &cart))
	assert.Empty(t, cart.Lines)
}

func TestNavWalksHistory(t *testing.T) {
	out, err := runGuestctl(t, "-cmd=nav", "-back=2", "-address=/catalog?usageCategory=hajj&isNew=true", "/product/p1", "/old-promo")
	require.NoError(t, err)

	var walk struct {
		Steps []struct {
			Address    string           `json:"address"`
			Canonical  string           `json:"canonical"`
			Recognized bool             `json:"recognized"`
			State      navigation.State `json:"state"`
		} `json:"steps"`
		Address string           `json:"address"`
		State   navigation.State `json:"state"`
		Entries int              `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &walk))

	require.Len(t, walk.Steps, 3)
	assert.Equal(t, "/catalog?usageCategory=hajj&isNew=true", walk.Steps[0].Canonical)
	assert.Equal(t, navigation.State{Page: navigation.PageProduct, ProductID: "p1"}, walk.Steps[1].State)
	assert.False(t, walk.Steps[2].Recognized)
	assert.Equal(t, "/", walk.Steps[2].Canonical)

	assert.Equal(t, 4, walk.Entries)
	assert.Equal(t, "/catalog?usageCategory=hajj&isNew=true", walk.Address)
	assert.Equal(t, navigation.ParseAddress(walk.Address), walk.State)
}
