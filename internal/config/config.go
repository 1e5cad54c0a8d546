package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const DefaultCatalogURL = "https://tubbyai-products-catalog.s3.amazonaws.com/unified-products-master.json"

type Config struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	Env         string `env:"ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	FrontendURL string `env:"FRONTEND_URL"`

	Catalog     CatalogConfig     `envPrefix:"CATALOG_"`
	Auth        AuthConfig        `envPrefix:"AUTH_BASIC_"`
	RateLimiter RateLimiterConfig `envPrefix:"RATELIMITER_"`

	CloudinaryURL string `env:"CLOUDINARY_URL"`
}

type CatalogConfig struct {
	URL          string        `env:"URL"`
	MediaBaseURL string        `env:"MEDIA_BASE_URL"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"5s"`
	// RefreshInterval of zero disables the background refresh.
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"0s"`
}

// AuthConfig guards the operator endpoints (/debug/vars, catalog refresh).
// PassHash is a bcrypt hash.
type AuthConfig struct {
	User     string `env:"USER"`
	PassHash string `env:"PASS_HASH"`
}

func (a AuthConfig) Enabled() bool {
	return a.User != "" && a.PassHash != ""
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int           `env:"REQUESTS_COUNT" envDefault:"200"`
	TimeFrame            time.Duration `env:"WINDOW" envDefault:"5s"`
	Enabled              bool          `env:"ENABLED" envDefault:"false"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.Catalog.URL == "" {
		cfg.Catalog.URL = DefaultCatalogURL
	}
	if cfg.Catalog.Timeout <= 0 {
		return nil, fmt.Errorf("CATALOG_TIMEOUT must be positive, got %s", cfg.Catalog.Timeout)
	}
	if cfg.RateLimiter.Enabled && (cfg.RateLimiter.RequestsPerTimeFrame <= 0 || cfg.RateLimiter.TimeFrame <= 0) {
		return nil, errors.New("RATELIMITER_REQUESTS_COUNT and RATELIMITER_WINDOW must be positive")
	}
	return cfg, nil
}
