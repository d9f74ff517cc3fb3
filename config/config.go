package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Amazon    AmazonConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AmazonConfig holds Product Advertising API configuration. AccessKey,
// SecretKey, and PartnerTag have no defaults; their absence is a startup
// error, never a per-call one.
type AmazonConfig struct {
	AccessKey   string        `mapstructure:"access_key"`
	SecretKey   string        `mapstructure:"secret_key"`
	PartnerTag  string        `mapstructure:"partner_tag"`
	Host        string        `mapstructure:"host"`
	Region      string        `mapstructure:"region"`
	Marketplace string        `mapstructure:"marketplace"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP  int     `mapstructure:"per_ip"`
	Amazon float64 `mapstructure:"amazon"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricepulse/")

	// Environment variable settings
	v.SetEnvPrefix("PRICEPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Amazon defaults
	v.SetDefault("amazon.host", "webservices.amazon.com")
	v.SetDefault("amazon.region", "us-east-1")
	v.SetDefault("amazon.marketplace", "www.amazon.com")
	v.SetDefault("amazon.timeout", "12s")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.amazon", 1.0) // PA-API default is 1 TPS
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Amazon.AccessKey == "" {
		return fmt.Errorf("Amazon access key is required (set PRICEPULSE_AMAZON_ACCESS_KEY)")
	}

	if config.Amazon.SecretKey == "" {
		return fmt.Errorf("Amazon secret key is required (set PRICEPULSE_AMAZON_SECRET_KEY)")
	}

	if config.Amazon.PartnerTag == "" {
		return fmt.Errorf("Amazon partner tag is required (set PRICEPULSE_AMAZON_PARTNER_TAG)")
	}

	if config.RateLimit.Amazon <= 0 {
		return fmt.Errorf("Amazon rate limit must be positive, got: %f", config.RateLimit.Amazon)
	}

	return nil
}
