package config

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to an env var; an optional .env file in the working
// directory is read first.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Allowed browser origin for the single-page client. Empty allows any.
	CORSOrigin string `mapstructure:"CORS_ORIGIN"`

	// Database: sqlite://path, a bare file path, or postgres://...
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBDebug     bool   `mapstructure:"DB_DEBUG"`

	// Redis backs the short-lived report cache. Empty disables caching.
	RedisURL        string `mapstructure:"REDIS_URL"`
	CacheTTLSeconds int    `mapstructure:"CACHE_TTL_SECONDS"`

	// Access gate. With neither PIN nor PIN hash set every session is authenticated.
	PIN             string `mapstructure:"APP_PIN"`
	PINHash         string `mapstructure:"APP_PIN_HASH"`
	SessionSecret   string `mapstructure:"SESSION_SECRET"`
	SessionTTLHours int    `mapstructure:"SESSION_TTL_HOURS"`

	// Ledger
	PaymentTolerance string `mapstructure:"PAYMENT_TOLERANCE"`

	// SMTP
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	// Documents
	BusinessName string `mapstructure:"BUSINESS_NAME"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	setDefaults(v)

	// Optional .env file for local development; a missing file is not an error
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CORS_ORIGIN", "")
	v.SetDefault("DATABASE_URL", "sqlite://adetta_lite.db")
	v.SetDefault("DB_DEBUG", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CACHE_TTL_SECONDS", 2)
	v.SetDefault("APP_PIN", "")
	v.SetDefault("APP_PIN_HASH", "")
	v.SetDefault("SESSION_SECRET", "change-me")
	v.SetDefault("SESSION_TTL_HOURS", 12)
	v.SetDefault("PAYMENT_TOLERANCE", "0.000001")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "")
	v.SetDefault("BUSINESS_NAME", "Adetta")
}

// Tolerance parses PaymentTolerance. Invalid or negative values fall back to zero.
func (c *Config) Tolerance() decimal.Decimal {
	d, err := decimal.NewFromString(c.PaymentTolerance)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// GateEnabled reports whether a PIN protects the API.
func (c *Config) GateEnabled() bool { return c.PIN != "" || c.PINHash != "" }
