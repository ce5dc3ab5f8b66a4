package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends understood by the persistence layer.
const (
	StorageBackendLocal  = "local"
	StorageBackendRemote = "remote"
	StorageBackendRedis  = "redis"
)

// Heating modes for HomeConfig.Mode.
const (
	ModeHeating = "heating"
	ModeCooling = "cooling"
)

// Config is the root configuration structure for the dashboard core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Home      HomeConfig      `yaml:"home"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// HomeConfig seeds the process-wide system configuration.
type HomeConfig struct {
	// Mode is "heating" or "cooling" and applies to every room.
	Mode string `yaml:"mode"`

	// MinDimLevel is the brightness a dimmable light jumps to when it is
	// switched on at zero brightness (0-255).
	MinDimLevel int `yaml:"min_dim_level"`

	// BlindStepIntervalMS is the tick interval of a running blind drive.
	// Step sizes assume 10 ticks per second, so changing this only speeds up
	// or slows down the animation.
	BlindStepIntervalMS int `yaml:"blind_step_interval_ms"`
}

// StorageConfig selects the persistence backend for user scenes.
type StorageConfig struct {
	Backend string            `yaml:"backend"`
	Remote  RemoteStoreConfig `yaml:"remote"`
	Redis   RedisStoreConfig  `yaml:"redis"`
}

// RemoteStoreConfig configures the HTTP storage backend.
type RemoteStoreConfig struct {
	// BaseURL is the API prefix; keys are addressed as {BaseURL}/storage/{key}.
	BaseURL string `yaml:"base_url"`
	// Timeout is the per-request timeout in seconds.
	Timeout int `yaml:"timeout"`
}

// RedisStoreConfig configures the Redis storage backend.
type RedisStoreConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults), skipped if the file does not exist
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern HOMEDASH_SECTION_KEY,
// for example HOMEDASH_DATABASE_PATH or HOMEDASH_STORAGE_BACKEND.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// The dashboard runs on defaults alone.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Home: HomeConfig{
			Mode:                ModeHeating,
			MinDimLevel:         25,
			BlindStepIntervalMS: 100,
		},
		Storage: StorageConfig{
			Backend: StorageBackendLocal,
			Remote: RemoteStoreConfig{
				BaseURL: "http://localhost:1880/api",
				Timeout: 5,
			},
			Redis: RedisStoreConfig{
				Addr:   "localhost:6379",
				Prefix: "homedash:",
			},
		},
		Database: DatabaseConfig{
			Path:        "./data/homedash.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "homedash-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HOMEDASH_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("HOMEDASH_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("HOMEDASH_STORAGE_REMOTE_URL"); v != "" {
		cfg.Storage.Remote.BaseURL = v
	}
	if v := os.Getenv("HOMEDASH_REDIS_ADDR"); v != "" {
		cfg.Storage.Redis.Addr = v
	}
	if v := os.Getenv("HOMEDASH_REDIS_PASSWORD"); v != "" {
		cfg.Storage.Redis.Password = v
	}

	if v := os.Getenv("HOMEDASH_MQTT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MQTT.Enabled = b
		}
	}
	if v := os.Getenv("HOMEDASH_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("HOMEDASH_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("HOMEDASH_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	if v := os.Getenv("HOMEDASH_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("HOMEDASH_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	if v := os.Getenv("HOMEDASH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
// Every problem found is reported in a single error.
func (c *Config) Validate() error {
	var errs []string

	switch c.Home.Mode {
	case ModeHeating, ModeCooling:
	default:
		errs = append(errs, `home.mode must be "heating" or "cooling"`)
	}
	if c.Home.MinDimLevel < 0 || c.Home.MinDimLevel > 255 {
		errs = append(errs, "home.min_dim_level must be between 0 and 255")
	}
	if c.Home.BlindStepIntervalMS <= 0 {
		errs = append(errs, "home.blind_step_interval_ms must be positive")
	}

	switch c.Storage.Backend {
	case StorageBackendLocal:
	case StorageBackendRemote:
		if c.Storage.Remote.BaseURL == "" {
			errs = append(errs, "storage.remote.base_url is required for the remote backend")
		}
	case StorageBackendRedis:
		if c.Storage.Redis.Addr == "" {
			errs = append(errs, "storage.redis.addr is required for the redis backend")
		}
	default:
		errs = append(errs, `storage.backend must be "local", "remote" or "redis"`)
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled && c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// IsHeating reports whether the configured mode is heating.
func (c *Config) IsHeating() bool {
	return c.Home.Mode != ModeCooling
}

// BlindStepInterval returns the blind drive tick interval as a Duration.
func (c *Config) BlindStepInterval() time.Duration {
	return time.Duration(c.Home.BlindStepIntervalMS) * time.Millisecond
}

// RemoteTimeout returns the remote storage request timeout as a Duration.
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.Storage.Remote.Timeout) * time.Second
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
