package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{"API_BASE_URL": "https://api.hostel.test/"}))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://api.hostel.test", cfg.API.BaseURL, "trailing slash trimmed")
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, PaginationConfig{Limit: 10, Page: 1, Offset: 0}, cfg.Pagination)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.CORSOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Demo.Enabled)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{
		"PORT":             "9000",
		"API_BASE_URL":     "http://backend",
		"ORGANIZATION_ID":  "org-7",
		"API_TIMEOUT_MS":   "1500",
		"PAGINATION_LIMIT": "25",
		"CORS_ORIGINS":     " https://admin.hostel.test , ,http://localhost:3000",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "org-7", cfg.API.OrganizationID)
	assert.Equal(t, 1500*time.Millisecond, cfg.API.Timeout)
	assert.Equal(t, 25, cfg.Pagination.Defaults().Limit)
	assert.Equal(t, []string{"https://admin.hostel.test", "http://localhost:3000"}, cfg.CORSOrigins)
}

func TestFromEnv_DemoModeNeedsNoBaseURL(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{"DEMO_MODE": "true"}))
	require.NoError(t, err)
	assert.True(t, cfg.Demo.Enabled)
	assert.Equal(t, ":memory:", cfg.Demo.DBPath)
}

func TestFromEnv_MissingBaseURL(t *testing.T) {
	_, err := FromEnv(lookup(nil))
	assert.ErrorIs(t, err, ErrMissingBaseURL)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	// GIVEN: Unparseable and out-of-range values
	// THEN: Every problem is reported in one error
	_, err := FromEnv(lookup(map[string]string{
		"API_BASE_URL":     "http://backend",
		"PORT":             "eighty",
		"DEMO_MODE":        "maybe",
		"PAGINATION_LIMIT": "0",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `PORT: invalid integer "eighty"`)
	assert.Contains(t, err.Error(), `DEMO_MODE: invalid boolean "maybe"`)

	_, err = FromEnv(lookup(map[string]string{"API_BASE_URL": "http://backend", "PAGINATION_LIMIT": "0"}))
	assert.ErrorContains(t, err, "PAGINATION_LIMIT must be at least 1")
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "DEBUG")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.Empty(t, buf.String())

	log = newLogger(&buf, "loud")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Contains(t, buf.String(), "Invalid LOG_LEVEL 'loud'")
}
