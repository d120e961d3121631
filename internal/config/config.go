// Package config provides configuration loading and management for the application.
package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// HTTP server port
	Port string

	// Log level for logrus (debug, info, warn, error)
	LogLevel string

	// The main data provider to use when others fail
	PrimaryProvider string

	// Base URLs for different property-data providers
	RentCastURL string
	ListingsURL string
	CountyURL   string

	// OpenTelemetry endpoint for observability
	OtelEndpoint string

	// API keys for various services
	APIKeys map[string]string

	// Path to the admin assumption overrides file (YAML), empty to skip
	AdminAssumptionsPath string

	// Aggregation mode for rent comps: weighted, median, trimmed, consensus
	RentCompMode string

	// Timeouts and circuit breaker settings
	RequestTimeout    time.Duration
	MaxPropertyValue  float64
	MaxValueChange    float64
	MinProviderCount  int
	CircuitResetDelay time.Duration

	// Rate limiting for the HTTP adapter
	RateLimit RateLimitConfig

	// Verdict export to downstream consumers
	Export ExportConfig

	// Report signing
	Signing SigningConfig
}

// RateLimitConfig defines settings for request rate limiting
type RateLimitConfig struct {
	Enabled        bool `json:"enabled"`
	RequestsPerMin int  `json:"requests_per_min"`
	BurstSize      int  `json:"burst_size"`
}

// ExportConfig defines settings for the verdict webhook exporter
type ExportConfig struct {
	Enabled        bool          `json:"enabled"`
	WebhookURL     string        `json:"webhook_url"`
	WebhookAPIKey  string        `json:"webhook_api_key,omitempty"`
	BatchSize      int           `json:"batch_size"`
	ExportInterval time.Duration `json:"export_interval"`
}

// SigningConfig defines settings for analysis report signing
type SigningConfig struct {
	Enabled              bool          `json:"enabled"`
	VerificationRequired bool          `json:"verification_required"`
	SignatureValidity    time.Duration `json:"signature_validity"`
	StrictMode           bool          `json:"strict_mode"`
}

// Load creates a new Config from environment variables
func Load() Config {
	apiKeys := map[string]string{}
	if raw := os.Getenv("API_KEYS"); raw != "" {
		_ = json.Unmarshal([]byte(raw), &apiKeys)
	}

	return Config{
		Port:                 GetEnvOrDefault("PORT", "8080"),
		LogLevel:             GetEnvOrDefault("LOG_LEVEL", "info"),
		PrimaryProvider:      strings.ToLower(GetEnvOrDefault("PRIMARY_PROVIDER", "rentcast")),
		RentCastURL:          GetEnvOrDefault("RENTCAST_URL", "https://api.rentcast.io/v1"),
		ListingsURL:          GetEnvOrDefault("LISTINGS_URL", "https://api.listings.example.com/v2"),
		CountyURL:            GetEnvOrDefault("COUNTY_URL", "https://records.county.example.com/api"),
		OtelEndpoint:         GetEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		APIKeys:              apiKeys,
		AdminAssumptionsPath: GetEnvOrDefault("ADMIN_ASSUMPTIONS_PATH", ""),
		RentCompMode:         GetEnvOrDefault("RENT_COMP_MODE", "weighted"),
		RequestTimeout:       GetEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
		MaxPropertyValue:     GetEnvAsFloat("MAX_PROPERTY_VALUE", 100_000_000),
		MaxValueChange:       GetEnvAsFloat("MAX_VALUE_CHANGE", 0.5),
		MinProviderCount:     GetEnvAsInt("MIN_PROVIDER_COUNT", 1),
		CircuitResetDelay:    GetEnvAsDuration("CIRCUIT_RESET_DELAY", 5*time.Minute),
		RateLimit: RateLimitConfig{
			Enabled:        GetEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMin: GetEnvAsInt("REQUESTS_PER_MIN", 60),
			BurstSize:      GetEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		Export: ExportConfig{
			Enabled:        GetEnvAsBool("EXPORT_ENABLED", false),
			WebhookURL:     GetEnvOrDefault("EXPORT_WEBHOOK_URL", ""),
			WebhookAPIKey:  GetEnvOrDefault("EXPORT_WEBHOOK_API_KEY", ""),
			BatchSize:      GetEnvAsInt("EXPORT_BATCH_SIZE", 100),
			ExportInterval: GetEnvAsDuration("EXPORT_INTERVAL", time.Minute),
		},
		Signing: SigningConfig{
			Enabled:              GetEnvAsBool("SIGNATURE_ENABLED", false),
			VerificationRequired: GetEnvAsBool("VERIFICATION_REQUIRED", false),
			SignatureValidity:    GetEnvAsDuration("SIGNATURE_VALIDITY", 24*time.Hour),
			StrictMode:           GetEnvAsBool("STRICT_MODE", false),
		},
	}
}

// GetEnv retrieves an environment variable and whether it exists
func GetEnv(key string) (string, bool) {
	value, exists := os.LookupEnv(key)
	return value, exists
}

// GetEnvOrDefault retrieves an environment variable or returns the default value if not set
func GetEnvOrDefault(key, defaultValue string) string {
	if value, exists := GetEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt retrieves an environment variable as an integer with a default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := GetEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvAsFloat retrieves an environment variable as a float with a default value
func GetEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := GetEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// GetEnvAsBool retrieves an environment variable as a boolean with a default value
func GetEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := GetEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// GetEnvAsDuration retrieves an environment variable as a duration with a default value
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := GetEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
