package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"chordsuggest/backend/internal/embedding"
)

// DefaultModelPath is where the fine-tuned chord model is expected when MODEL_PATH is unset.
const DefaultModelPath = "MASTERS/word2vec_fine_tuned.bin"

// Config holds all configuration for the chord suggestion server.
type Config struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"5000"`

	ModelPath   string `envconfig:"MODEL_PATH" default:"MASTERS/word2vec_fine_tuned.bin"`
	ModelFormat string `envconfig:"MODEL_FORMAT" default:"auto"`
	WatchModel  bool   `envconfig:"WATCH_MODEL" default:"false"`

	// Comma separated; "*" allows every origin.
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// Maximum number of memoised suggestion results; 0 disables the cache.
	SuggestCacheSize int `envconfig:"SUGGEST_CACHE_SIZE" default:"1024"`
}

// LoadConfig loads configuration from an optional .env file and the environment.
func LoadConfig() (*Config, error) {
	// a missing .env file is fine; real environment variables take precedence
	_ = godotenv.Load()

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.ModelPath == "" {
		return fmt.Errorf("model path is required")
	}
	if _, err := embedding.ParseFormat(c.ModelFormat); err != nil {
		return err
	}
	if c.SuggestCacheSize < 0 {
		return fmt.Errorf("suggest cache size must be non-negative")
	}
	return nil
}

// Format returns the parsed model file format. Call after Validate.
func (c *Config) Format() embedding.Format {
	format, err := embedding.ParseFormat(c.ModelFormat)
	if err != nil {
		return embedding.FormatAuto
	}
	return format
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
