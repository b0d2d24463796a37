package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"dconn.dev/portfolio-api/internal/logging"
	"dconn.dev/portfolio-api/internal/store"
)

// Configuration keys. Each key is also read from the upper-cased environment variable.
const (
	KeyServerAddr      = "server_addr"
	KeyAPIPassword     = "api_password"
	KeyPostPassword    = "post_project"
	KeyStorageDriver   = "storage_driver"
	KeyStoragePath     = "storage_path"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyRateLimit       = "rate_limit"
	KeyRateBurst       = "rate_burst"
	KeyTrustProxy      = "trust_proxy"
	KeyShutdownTimeout = "shutdown_timeout"
)

// DefaultEnvFile is read when present, like a dotenv file next to the binary
const DefaultEnvFile = ".env"

// Config holds all application configuration
type Config struct {
	ServerAddr      string
	APIPassword     string
	PostPassword    string
	StorageDriver   string
	StoragePath     string
	LogLevel        string
	LogFormat       string
	RateLimit       float64
	RateBurst       int
	TrustProxy      bool
	ShutdownTimeout time.Duration
}

// Sources lists optional files merged under the environment
type Sources struct {
	// ConfigFile is a YAML/TOML/JSON file; empty skips it.
	ConfigFile string
	// EnvFile is a dotenv file; empty means DefaultEnvFile, read only if it exists.
	EnvFile string
}

// NewViper returns a viper instance with defaults and environment lookup enabled
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyServerAddr, ":5050")
	v.SetDefault(KeyAPIPassword, "")
	v.SetDefault(KeyPostPassword, "")
	v.SetDefault(KeyStorageDriver, store.DriverFile)
	v.SetDefault(KeyStoragePath, "data/api.json")
	v.SetDefault(KeyLogLevel, logging.LevelInfo)
	v.SetDefault(KeyLogFormat, logging.FormatStructured)
	v.SetDefault(KeyRateLimit, 0)
	v.SetDefault(KeyRateBurst, 10)
	v.SetDefault(KeyTrustProxy, false)
	v.SetDefault(KeyShutdownTimeout, 10*time.Second)
	v.AutomaticEnv()
	return v
}

// Load reads the optional files into v and resolves the final configuration.
// Precedence: flags bound to v, environment, env file, config file, defaults.
func Load(v *viper.Viper, src Sources) (*Config, error) {
	if src.ConfigFile != "" {
		v.SetConfigFile(src.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", src.ConfigFile, err)
		}
	}

	envFile := src.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if !missing || src.EnvFile != "" {
			return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		ServerAddr:      v.GetString(KeyServerAddr),
		APIPassword:     v.GetString(KeyAPIPassword),
		PostPassword:    v.GetString(KeyPostPassword),
		StorageDriver:   strings.ToLower(v.GetString(KeyStorageDriver)),
		StoragePath:     v.GetString(KeyStoragePath),
		LogLevel:        strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:       strings.ToLower(v.GetString(KeyLogFormat)),
		RateLimit:       v.GetFloat64(KeyRateLimit),
		RateBurst:       v.GetInt(KeyRateBurst),
		TrustProxy:      v.GetBool(KeyTrustProxy),
		ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for unsupported values
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case store.DriverFile, store.DriverSQLite:
		if c.StoragePath == "" {
			return fmt.Errorf("%s is required for the %s driver", KeyStoragePath, c.StorageDriver)
		}
	case store.DriverMemory:
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.StorageDriver)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if err := logging.ValidateFormat(c.LogFormat); err != nil {
		return err
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%s must not be negative", KeyRateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("%s must be at least 1 when rate limiting is enabled", KeyRateBurst)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyShutdownTimeout)
	}
	return nil
}
