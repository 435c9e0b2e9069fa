package config

import (
	"fmt"
	"net/url"
	"time"

	"shortlink/internal/shortener"
)

// Cache backend identifiers
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds the application configuration. It is built once at startup
// and passed explicitly to each component.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Policy    PolicyConfig
	Events    EventsConfig
	Logging   LoggingConfig
	Shortener shortener.Config
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port    string
	BaseURL string // public base URL used to build short URLs
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Backend       string
	TTLCeiling    time.Duration // upper bound for any cache entry TTL
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// PolicyConfig holds URL lifecycle policy configuration
type PolicyConfig struct {
	ExpirationHorizon time.Duration // how long new records live
	InsertRetries     int           // attempts before giving up on code collisions
}

// EventsConfig holds event propagation configuration. An empty NATS URL
// disables the subsystem.
type EventsConfig struct {
	NATSURL string
	Subject string
	Replica bool // subscribe and mirror creation events into the local store
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Verbose bool
}

// New creates a new config with the given parameters
func New(server ServerConfig, database DatabaseConfig, cache CacheConfig, policy PolicyConfig, events EventsConfig, logging LoggingConfig, shortenerConfig shortener.Config) (*Config, error) {
	cfg := &Config{
		Server:    server,
		Database:  database,
		Cache:     cache,
		Policy:    policy,
		Events:    events,
		Logging:   logging,
		Shortener: shortenerConfig,
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate validates the configuration values
func (c *Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if c.Server.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsed, err := url.Parse(c.Server.BaseURL)
	if err != nil || !parsed.IsAbs() {
		return fmt.Errorf("base URL must be an absolute URL, got: %s", c.Server.BaseURL)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	switch c.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("redis address cannot be empty when the redis cache backend is selected")
		}
	default:
		return fmt.Errorf("unknown cache backend: %s", c.Cache.Backend)
	}

	if c.Cache.TTLCeiling <= 0 {
		return fmt.Errorf("cache TTL ceiling must be positive, got: %v", c.Cache.TTLCeiling)
	}

	if c.Policy.ExpirationHorizon <= 0 {
		return fmt.Errorf("expiration horizon must be positive, got: %v", c.Policy.ExpirationHorizon)
	}

	if c.Policy.InsertRetries <= 0 {
		return fmt.Errorf("insert retries must be positive, got: %d", c.Policy.InsertRetries)
	}

	if c.Events.NATSURL != "" && c.Events.Subject == "" {
		return fmt.Errorf("event subject cannot be empty when NATS is configured")
	}

	if c.Events.Replica && c.Events.NATSURL == "" {
		return fmt.Errorf("replica mode requires a NATS URL")
	}

	return nil
}
