package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// HTTP behavior of the session client.
	HTTPTimeout  time.Duration `yaml:"http_timeout"`
	RequestDelay time.Duration `yaml:"request_delay"`
	UserAgent    string        `yaml:"user_agent"`

	// DefaultLanguages is the language priority applied when the caller
	// requests none.
	DefaultLanguages []string `yaml:"default_languages"`

	// Logging.
	LogDir   string `yaml:"log_dir"`
	LogLevel string `yaml:"log_level"`
}

// Load builds the configuration from an optional YAML file (CONFIG_FILE)
// overridden by environment variables, then validates it.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPTimeout:      30 * time.Second,
		RequestDelay:     500 * time.Millisecond,
		DefaultLanguages: nil,
		LogDir:           "",
		LogLevel:         "info",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.HTTPTimeout = getEnvAsDuration("HTTP_TIMEOUT", cfg.HTTPTimeout)
	cfg.RequestDelay = getEnvAsDuration("REQUEST_DELAY", cfg.RequestDelay)
	cfg.UserAgent = getEnv("USER_AGENT", cfg.UserAgent)
	cfg.DefaultLanguages = getEnvAsStringSlice("DEFAULT_LANGUAGES", cfg.DefaultLanguages)
	cfg.LogDir = getEnv("LOG_DIR", cfg.LogDir)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.HTTPTimeout <= 0 {
		return errors.New("http timeout must be greater than 0")
	}
	if c.RequestDelay < 0 {
		return errors.New("request delay must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return parts
		}
	}
	return defaultValue
}
