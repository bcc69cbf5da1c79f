//go:build !integration

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dost0092/hotel-mapped-url/internal/config"
)

func TestRunCmd_RunE_FailsOnValidation(t *testing.T) {
	// Config validation fails because required fields are missing.
	cfg = &config.Config{}
	cfg.Server.Port = 8000
	cfg.Store.Driver = "postgres"
	cfg.Crawler.NavTimeout = 1
	cfg.Crawler.RetryLimit = 1
	cfg.Matching.FuzzyThreshold = 85

	runCmd.SetContext(context.Background())
	defer runCmd.SetContext(context.TODO())

	err := runCmd.RunE(runCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")
	assert.Contains(t, err.Error(), "registry.path is required")
}

func TestRunCmd_RunE_FailsOnMissingLocations(t *testing.T) {
	// Store init succeeds, then the seed file is not found.
	testConfig(t)

	runCmd.SetContext(context.Background())
	defer runCmd.SetContext(context.TODO())

	err := runCmd.RunE(runCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read locations")
}
