/*
Package config loads the static configuration of the dashboard server.

PURPOSE:
  Reads a .env file when present, then the process environment, and
  produces a Config. Nothing here is a CLI flag: the values describe the
  deployment (backend URL, organization, pagination defaults), not a run.

VARIABLES:
  PORT               HTTP listen port                     (8080)
  API_BASE_URL       Remote backend base URL              (required unless DEMO_MODE)
  ORGANIZATION_ID    Default organization id              ("")
  API_TIMEOUT_MS     Per-request backend timeout          (30000)
  PAGINATION_LIMIT   Default page size                    (10)
  PAGINATION_PAGE    Default page                         (1)
  PAGINATION_OFFSET  Default offset                       (0)
  DEMO_MODE          Serve fixtures from SQLite           (false)
  DEMO_DB_PATH       SQLite path for demo mode            (:memory:)
  LOG_LEVEL          logrus level                         (info)
  CORS_ORIGINS       Comma-separated allowed origins      (http://localhost:5173,http://localhost:8080)

DEMO MODE:
  Demo mode is an explicit opt-in. A failing backend is never replaced by
  fixture data; it surfaces as a network failure.

SEE ALSO:
  - logger.go: logrus construction
  - factory/gateways.go: consumes Config to build gateways
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/warp/student-hotel/generic"
)

// Config holds all configuration for the application.
type Config struct {
	Port        int
	CORSOrigins []string
	LogLevel    string

	API        APIConfig
	Pagination PaginationConfig
	Demo       DemoConfig
}

// APIConfig describes the remote backend.
type APIConfig struct {
	BaseURL        string
	OrganizationID string
	Timeout        time.Duration
}

// PaginationConfig holds list defaults applied when a query omits them.
type PaginationConfig struct {
	Limit  int
	Page   int
	Offset int
}

// Defaults returns the values as a ListQuery suitable for ListQuery.Normalize.
func (p PaginationConfig) Defaults() generic.ListQuery {
	return generic.ListQuery{Limit: p.Limit, Page: p.Page, Offset: p.Offset}
}

// DemoConfig selects the offline SQLite backend.
type DemoConfig struct {
	Enabled bool
	DBPath  string
}

// ErrMissingBaseURL is returned when neither API_BASE_URL nor DEMO_MODE is set.
var ErrMissingBaseURL = errors.New("API_BASE_URL is required unless DEMO_MODE=true")

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function. Used directly by tests.
func FromEnv(getenv func(string) string) (*Config, error) {
	e := env{get: getenv}

	cfg := &Config{
		Port:        e.int("PORT", 8080),
		CORSOrigins: e.list("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:8080"}),
		LogLevel:    e.str("LOG_LEVEL", "info"),
		API: APIConfig{
			BaseURL:        strings.TrimRight(e.str("API_BASE_URL", ""), "/"),
			OrganizationID: e.str("ORGANIZATION_ID", ""),
			Timeout:        time.Duration(e.int("API_TIMEOUT_MS", 30000)) * time.Millisecond,
		},
		Pagination: PaginationConfig{
			Limit:  e.int("PAGINATION_LIMIT", generic.DefaultLimit),
			Page:   e.int("PAGINATION_PAGE", generic.DefaultPage),
			Offset: e.int("PAGINATION_OFFSET", generic.DefaultOffset),
		},
		Demo: DemoConfig{
			Enabled: e.bool("DEMO_MODE", false),
			DBPath:  e.str("DEMO_DB_PATH", ":memory:"),
		},
	}
	if len(e.errs) > 0 {
		return nil, fmt.Errorf("config: %w", errors.Join(e.errs...))
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.API.BaseURL == "" && !c.Demo.Enabled {
		errs = append(errs, ErrMissingBaseURL)
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("API_TIMEOUT_MS must be positive"))
	}
	if c.Pagination.Limit < 1 {
		errs = append(errs, fmt.Errorf("PAGINATION_LIMIT must be at least 1"))
	}
	if c.Pagination.Page < 1 {
		errs = append(errs, fmt.Errorf("PAGINATION_PAGE must be at least 1"))
	}
	if c.Pagination.Offset < 0 {
		errs = append(errs, fmt.Errorf("PAGINATION_OFFSET cannot be negative"))
	}
	return errors.Join(errs...)
}

// =============================================================================
// ENV HELPERS
// =============================================================================

type env struct {
	get  func(string) string
	errs []error
}

func (e *env) str(key, fallback string) string {
	if v := strings.TrimSpace(e.get(key)); v != "" {
		return v
	}
	return fallback
}

func (e *env) int(key string, fallback int) int {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return fallback
	}
	return n
}

func (e *env) bool(key string, fallback bool) bool {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: invalid boolean %q", key, v))
		return fallback
	}
	return b
}

func (e *env) list(key string, fallback []string) []string {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
