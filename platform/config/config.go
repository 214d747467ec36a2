// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// GeoConfig provides settings for the geocoding and routing providers.
type GeoConfig interface {
	GetNominatimBaseURL() string
	GetOSRMBaseURL() string
	GetGeoUserAgent() string
	GetProviderTimeout() time.Duration
	GetGeocodeRatePerSecond() float64
}

// DispatchConfig provides settings for the dispatch planner pipeline.
type DispatchConfig interface {
	GetDebounceInterval() time.Duration
	GetSuggestionLimit() int
	GetPlannerIdleTTL() time.Duration
}

// FuelConfig provides the fuel cost derivation rate.
type FuelConfig interface {
	GetFuelRatePerKm() float64
}

// Config holds all application configuration values.
type Config struct {
	Env             string
	HTTPAddr        string
	DatabaseURL     string
	JWTAccessSecret string
	CORSAllowAll    bool
	CORSOrigins     []string
	CORSAllowCreds  bool

	NominatimBaseURL     string
	OSRMBaseURL          string
	GeoUserAgent         string
	ProviderTimeout      time.Duration
	GeocodeRatePerSecond float64

	DebounceInterval time.Duration
	SuggestionLimit  int
	PlannerIdleTTL   time.Duration

	FuelRatePerKm float64
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool { return c.CORSAllowCreds }

// GeoConfig implementation
func (c *Config) GetNominatimBaseURL() string { return c.NominatimBaseURL }
func (c *Config) GetOSRMBaseURL() string { return c.OSRMBaseURL }
func (c *Config) GetGeoUserAgent() string { return c.GeoUserAgent }
func (c *Config) GetProviderTimeout() time.Duration { return c.ProviderTimeout }
func (c *Config) GetGeocodeRatePerSecond() float64 { return c.GeocodeRatePerSecond }

// DispatchConfig implementation
func (c *Config) GetDebounceInterval() time.Duration { return c.DebounceInterval }
func (c *Config) GetSuggestionLimit() int { return c.SuggestionLimit }
func (c *Config) GetPlannerIdleTTL() time.Duration { return c.PlannerIdleTTL }

// FuelConfig implementation
func (c *Config) GetFuelRatePerKm() float64 { return c.FuelRatePerKm }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		JWTAccessSecret: getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:    corsAllowAll,
		CORSOrigins:     corsOrigins,
		CORSAllowCreds:  strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),

		NominatimBaseURL:     getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		OSRMBaseURL:          getEnv("OSRM_BASE_URL", "https://router.project-osrm.org"),
		GeoUserAgent:         getEnv("GEO_USER_AGENT", "FleetOpsApp/1.0"),
		ProviderTimeout:      mustDuration(getEnv("GEO_PROVIDER_TIMEOUT", "8s")),
		GeocodeRatePerSecond: mustFloat64(getEnv("GEOCODE_RATE_PER_SECOND", "1")),

		DebounceInterval: mustDuration(getEnv("DISPATCH_DEBOUNCE_INTERVAL", "400ms")),
		SuggestionLimit:  int(mustInt64(getEnv("DISPATCH_SUGGESTION_LIMIT", "5"))),
		PlannerIdleTTL:   mustDuration(getEnv("DISPATCH_PLANNER_IDLE_TTL", "30m")),

		FuelRatePerKm: mustFloat64(getEnv("FUEL_RATE_PER_KM", "12")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.DebounceInterval <= 0 {
		return nil, fmt.Errorf("DISPATCH_DEBOUNCE_INTERVAL must be a positive duration")
	}
	if cfg.SuggestionLimit <= 0 {
		return nil, fmt.Errorf("DISPATCH_SUGGESTION_LIMIT must be positive")
	}
	if cfg.FuelRatePerKm < 0 {
		return nil, fmt.Errorf("FUEL_RATE_PER_KM cannot be negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat64(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
