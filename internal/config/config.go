package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"funnelscope/internal"
	"funnelscope/internal/errors"
)

// FileEnvVar names a YAML file whose settings sit between the defaults and
// the environment.
const FileEnvVar = "FUNNELSCOPE_CONFIG"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Import   ImportConfig   `yaml:"import"`
	Storage  StorageConfig  `yaml:"storage"`
	LogLevel string         `yaml:"log_level"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig holds database connection settings. An empty URL selects
// the in-memory repository.
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// ImportConfig tunes parsing and type inference
type ImportConfig struct {
	Delimiter     string  `yaml:"delimiter"`
	SampleSize    int     `yaml:"sample_size"`
	TypeThreshold float64 `yaml:"type_threshold"`
	SampleValues  int     `yaml:"sample_values"`
	Concurrency   int     `yaml:"concurrency"`
}

// StorageConfig holds upload storage settings
type StorageConfig struct {
	UploadDir   string `yaml:"upload_dir"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
		},
		Import: ImportConfig{
			Delimiter:     ",",
			SampleSize:    100,
			TypeThreshold: 0.6,
			SampleValues:  5,
			Concurrency:   4,
		},
		Storage: StorageConfig{
			UploadDir:   "./uploads",
			MaxUploadMB: 32,
		},
		LogLevel: "INFO",
	}
}

// Load builds the configuration from defaults, the optional YAML file and
// environment variables, in that order, and validates it
func Load() (*Config, error) {
	config := Default()

	if path := os.Getenv(FileEnvVar); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, errors.Wrap(err, "failed to load configuration file")
		}
	}

	applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadFile(path string, config *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("cannot read %s: %v", path, err))
	}
	if err := yaml.Unmarshal(b, config); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("cannot parse %s: %v", path, err))
	}
	return nil
}

func applyEnv(c *Config) {
	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvDurationOrDefault("READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvDurationOrDefault("WRITE_TIMEOUT", c.Server.WriteTimeout)

	c.Database.URL = getEnvOrDefault("DATABASE_URL", c.Database.URL)
	c.Database.MaxOpenConns = getEnvIntOrDefault("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)

	c.Import.Delimiter = getEnvOrDefault("IMPORT_DELIMITER", c.Import.Delimiter)
	c.Import.SampleSize = getEnvIntOrDefault("INFER_SAMPLE_SIZE", c.Import.SampleSize)
	c.Import.TypeThreshold = getEnvFloatOrDefault("INFER_TYPE_THRESHOLD", c.Import.TypeThreshold)
	c.Import.SampleValues = getEnvIntOrDefault("SAMPLE_VALUES", c.Import.SampleValues)
	c.Import.Concurrency = getEnvIntOrDefault("IMPORT_CONCURRENCY", c.Import.Concurrency)

	c.Storage.UploadDir = getEnvOrDefault("UPLOAD_DIR", c.Storage.UploadDir)
	c.Storage.MaxUploadMB = getEnvIntOrDefault("MAX_UPLOAD_MB", c.Storage.MaxUploadMB)

	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
}

// Validate rejects settings the import pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if utf8.RuneCountInString(c.Import.Delimiter) != 1 {
		return errors.ConfigInvalid(fmt.Sprintf("import delimiter must be one character, got %q", c.Import.Delimiter))
	}
	if c.Import.TypeThreshold <= 0 || c.Import.TypeThreshold > 1 {
		return errors.ConfigInvalid(fmt.Sprintf("type threshold must be in (0,1], got %g", c.Import.TypeThreshold))
	}
	if c.Import.SampleSize <= 0 || c.Import.SampleValues <= 0 {
		return errors.ConfigInvalid("sample sizes must be positive")
	}
	if c.Import.Concurrency <= 0 {
		return errors.ConfigInvalid("import concurrency must be positive")
	}
	if c.Storage.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("max upload size must be positive")
	}
	if _, ok := internal.ParseLogLevel(c.LogLevel); !ok {
		return errors.ConfigInvalid(fmt.Sprintf("unknown log level %q", c.LogLevel))
	}
	return nil
}

// DelimiterRune returns the configured field delimiter.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Import.Delimiter)
	return r
}

// MaxUploadBytes is the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Storage.MaxUploadMB) << 20
}

// Logger builds a logger at the configured level.
func (c *Config) Logger() *internal.Logger {
	level, _ := internal.ParseLogLevel(c.LogLevel)
	return internal.NewLogger(level)
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
