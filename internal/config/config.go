package config

import (
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config holds application configuration values.
type Config struct {
	Secret         string        `envconfig:"SECRET" default:"dev_secret"`
	HTTPPort       string        `envconfig:"HTTP_PORT" default:"8080"`
	DatabaseDriver string        `envconfig:"DATABASE_DRIVER" default:"sqlite"`
	DatabaseDSN    string        `envconfig:"DATABASE_DSN" default:"cubo.db"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string        `envconfig:"LOG_FORMAT" default:"console"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	CookieSecure   bool          `envconfig:"COOKIE_SECURE" default:"false"`
	CORSOrigins    []string      `envconfig:"CORS_ORIGINS" default:"*"`
	AdminUsername  string        `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword  string        `envconfig:"ADMIN_PASSWORD"`
	CloseMonthCron string        `envconfig:"CLOSE_MONTH_CRON"`
	LoginRate      float64       `envconfig:"LOGIN_RATE" default:"1"`
	LoginBurst     int           `envconfig:"LOGIN_BURST" default:"5"`
	TrustProxy     bool          `envconfig:"TRUST_PROXY" default:"false"`

	// Warnings collects the adjustments made while loading, for the caller to log.
	Warnings []string `ignored:"true"`
}

// Load reads an optional .env file and then the environment, applying defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "read environment")
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		cfg.Warnings = append(cfg.Warnings, "invalid HTTP_PORT value "+strconv.Quote(cfg.HTTPPort)+", defaulting to 8080")
		cfg.HTTPPort = "8080"
	}

	switch cfg.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return Config{}, errors.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	if cfg.LoginRate <= 0 {
		cfg.LoginRate = 1
	}
	if cfg.LoginBurst <= 0 {
		cfg.LoginBurst = 5
	}
	return cfg, nil
}
