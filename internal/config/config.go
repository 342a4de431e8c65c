// Package config handles loading and validation of service configuration.
// Supports both development (env vars) and production (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Config holds all service configuration.
// Environment determines whether secrets load from env vars (development) or
// Secret Manager (production).
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"
	LogFormat   string // "text" or "json"

	// Browser origin allowed to make credentialed requests; empty disables CORS.
	AllowedOrigin string

	// Upstream transport: "default" or "chrome" (Chrome TLS fingerprint).
	Transport string

	// GCP settings (required in production)
	GCPProject string
	StoreID    string

	// Store-specific configuration (loaded from secrets)
	Store StoreConfig
}

// StoreConfig contains store-specific settings.
// In production, this is loaded from Secret Manager as JSON.
// In development, loaded from individual env vars or CONFIG_FILE.
//
// BackendURL and PublishableKey are deliberately not required: the gateway
// boots without them and serves empty catalog responses until the backend is
// configured.
type StoreConfig struct {
	BackendURL     string `json:"backend_url"`
	PublishableKey string `json:"publishable_key"`
	LocaleHint     string `json:"locale_hint,omitempty"`
	Currency       string `json:"currency,omitempty"`
	StoreName      string `json:"store_name,omitempty"`
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set) → ENV vars / Secret Manager.
func Load(ctx context.Context) (*Config, error) {
	// If CONFIG_FILE is set, load everything from the JSON file
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	// Otherwise, use ENV vars / Secret Manager approach
	cfg := &Config{
		Port:          envOrDefault("PORT", "8080"),
		Environment:   envOrDefault("ENVIRONMENT", "development"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		LogFormat:     envOrDefault("LOG_FORMAT", "text"),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
		Transport:     envOrDefault("UPSTREAM_TRANSPORT", "default"),
		GCPProject:    os.Getenv("GCP_PROJECT"),
		StoreID:       os.Getenv("STORE_ID"),
	}

	// Load store config based on environment
	var err error
	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		if cfg.StoreID == "" {
			return nil, fmt.Errorf("STORE_ID required in production environment")
		}
		err = cfg.loadFromSecretManager(ctx)
	} else {
		err = cfg.loadFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("loading store config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile reads all configuration from a JSON file.
// Used for local development to avoid multiple ENV vars.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fileConfig struct {
		Port          string      `json:"port"`
		Environment   string      `json:"environment"`
		LogLevel      string      `json:"log_level"`
		LogFormat     string      `json:"log_format"`
		AllowedOrigin string      `json:"allowed_origin"`
		Transport     string      `json:"transport"`
		Store         StoreConfig `json:"store"`
	}

	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := &Config{
		Port:          withDefault(fileConfig.Port, "8080"),
		Environment:   withDefault(fileConfig.Environment, "development"),
		LogLevel:      withDefault(fileConfig.LogLevel, "info"),
		LogFormat:     withDefault(fileConfig.LogFormat, "text"),
		AllowedOrigin: fileConfig.AllowedOrigin,
		Transport:     withDefault(fileConfig.Transport, "default"),
		Store:         fileConfig.Store,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

// loadFromSecretManager fetches store config from GCP Secret Manager.
// Secret name format: projects/{project}/secrets/{store_id}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.StoreID)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	if err := json.Unmarshal(result.Payload.Data, &c.Store); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}

	return nil
}

// loadFromEnv reads store config from individual environment variables.
// Used in development mode for local testing.
func (c *Config) loadFromEnv() error {
	c.Store = StoreConfig{
		BackendURL:     os.Getenv("MEDUSA_BACKEND_URL"),
		PublishableKey: os.Getenv("MEDUSA_PUBLISHABLE_KEY"),
		LocaleHint:     os.Getenv("REGION_LOCALE_HINT"),
		Currency:       os.Getenv("REGION_CURRENCY"),
		StoreName:      os.Getenv("STORE_NAME"),
	}
	return nil
}

// validate checks the shape of whatever configuration is present. A missing
// backend URL is fine (soft-fail mode); a malformed one is not.
func (c *Config) validate() error {
	switch c.Transport {
	case "default", "chrome":
	default:
		return fmt.Errorf("unknown transport %q (want default or chrome)", c.Transport)
	}

	if c.Store.BackendURL != "" {
		u, err := url.Parse(c.Store.BackendURL)
		if err != nil {
			return fmt.Errorf("invalid backend_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid backend_url: scheme must be http or https")
		}
	}

	return nil
}

// SlogLevel maps the configured log level string onto a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// envOrDefault returns the environment variable value or the default if not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
