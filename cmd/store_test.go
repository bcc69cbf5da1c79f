//go:build !integration

package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dost0092/hotel-mapped-url/internal/config"
)

// testConfig installs a fully valid config backed by a temp SQLite database
// and returns it for per-test tweaks.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	c := &config.Config{}
	c.Server.Port = 8000
	c.Store.Driver = "sqlite"
	c.Store.DatabaseURL = filepath.Join(dir, "test.db")
	c.Store.Table = "hotel_mapped_url"
	c.Crawler.Headless = true
	c.Crawler.NavTimeout = 25 * time.Second
	c.Crawler.RetryLimit = 3
	c.Crawler.RetryDelay = 2 * time.Second
	c.Crawler.RateLimit = 1
	c.Crawler.Burst = 1
	c.Matching.FuzzyThreshold = 85
	c.Registry.Path = filepath.Join(dir, "masterfile.xlsx")
	c.Locations.Path = filepath.Join(dir, "locations.json")
	c.Snapshot.Path = filepath.Join(dir, "hotel_url_mapped.json")
	c.Log.Level = "info"
	c.Log.Format = "json"

	cfg = c
	return c
}

func TestInitStore_SQLite(t *testing.T) {
	testConfig(t)

	st, err := initStore(context.Background())
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	require.NoError(t, st.Migrate(context.Background()))
	assert.NoError(t, st.Ping(context.Background()))
}

func TestInitStore_DefaultTable(t *testing.T) {
	c := testConfig(t)
	c.Store.Table = ""

	st, err := initStore(context.Background())
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	assert.NoError(t, st.Migrate(context.Background()))
}

func TestInitStore_UnsupportedDriver(t *testing.T) {
	c := testConfig(t)
	c.Store.Driver = "mysql"

	_, err := initStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}
