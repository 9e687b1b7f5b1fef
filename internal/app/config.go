package app

import (
	"os"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/CodeRunne/burgershop/internal/domain/order"
	"github.com/CodeRunne/burgershop/internal/handler"
)

// Config holds the complete application configuration, loadable from
// environment variables (BURGER_ prefix), flags, or YAML config files.
type Config struct {
	Addr           string   `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL    string   `usage:"PostgreSQL connection URL; empty runs the in-memory ledger" flag:"database-url"`
	AMQPURL        string   `usage:"RabbitMQ URL for record emission; empty logs records instead" flag:"amqp-url"`
	ShopAccount    string   `default:"burgershop" usage:"The shop's own account identity" flag:"shop-account"`
	HoldingAccount string   `default:"burgershop.holding" usage:"Account receiving payments attached to calls" flag:"holding-account"`
	APIKeyPepper   string   `usage:"HMAC pepper for API key hashing (BURGER_API_KEY_PEPPER)" flag:"api-key-pepper"`
	APIKeys        []string `usage:"API key entries as identity:hmac_sha256_hex" flag:"api-keys"`
	RateLimit      RateLimitConfig
	Graceful       GracefulConfig
}

// RateLimitConfig controls the per-client rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "BURGER",
		Files:     []string{"config.yaml", "/etc/burgershop/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.APIKeyPepper == "" {
		return nil, errors.New("API key pepper is required: set BURGER_API_KEY_PEPPER")
	}
	if len(cfg.APIKeys) == 0 {
		return nil, errors.New("at least one API key entry is required: set BURGER_API_KEYS")
	}
	if _, err := cfg.ParseAPIKeys(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ParseAPIKeys converts the identity:hash entries into a lookup table.
func (c *Config) ParseAPIKeys() (handler.StaticKeys, error) {
	keys := make(handler.StaticKeys, len(c.APIKeys))
	for _, entry := range c.APIKeys {
		identity, hash, ok := strings.Cut(entry, ":")
		if !ok || identity == "" || hash == "" {
			return nil, errors.Errorf("malformed API key entry %q, want identity:hash", entry)
		}
		keys[hash] = order.Identity(identity)
	}
	return keys, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and PORT
// to the application's BURGER_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
