package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the LogSift server.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Classifier ClassifierConfig
}

type ServerConfig struct {
	Port            int
	Env             string
	RateLimitPerMin int
	MaxUploadBytes  int64
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

// ClassifierConfig selects and configures the classification strategy.
// Provider is "deepseek" or "heuristic"; an unset or unusable provider
// degrades to heuristic at construction time rather than failing here.
type ClassifierConfig struct {
	Provider string
	Timeout  time.Duration
	DeepSeek DeepSeekConfig
}

type DeepSeekConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            envInt("LOGSIFT_PORT", 8080),
			Env:             envString("LOGSIFT_ENV", "development"),
			RateLimitPerMin: envInt("LOGSIFT_RATE_LIMIT_PER_MIN", 60),
			MaxUploadBytes:  int64(envInt("LOGSIFT_MAX_UPLOAD_MB", 10)) << 20,
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Classifier: ClassifierConfig{
			Provider: envString("CLASSIFIER_PROVIDER", "heuristic"),
			Timeout:  envDurationSecs("CLASSIFIER_TIMEOUT_SECS", 30*time.Second),
			DeepSeek: DeepSeekConfig{
				BaseURL: envString("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
				APIKey:  os.Getenv("DEEPSEEK_API_KEY"),
				Model:   envString("DEEPSEEK_MODEL", "deepseek-chat"),
			},
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("LOGSIFT_PORT must be a valid port, got %d", c.Server.Port)
	}

	if c.Classifier.Timeout <= 0 {
		return fmt.Errorf("CLASSIFIER_TIMEOUT_SECS must be positive")
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
