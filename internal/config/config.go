package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port                string  `mapstructure:"PORT"`
	Env                 string  `mapstructure:"ENV"`
	DatabaseURL         string  `mapstructure:"DATABASE_URL"`
	DBMaxConns          int32   `mapstructure:"DB_MAX_CONNS"`
	DBMinConns          int32   `mapstructure:"DB_MIN_CONNS"`
	LogLevel            string  `mapstructure:"LOG_LEVEL"`
	JWTSecret           string  `mapstructure:"JWT_SECRET"`
	JWTIssuer           string  `mapstructure:"JWT_ISSUER"`
	RateLimitRPS        float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst      int     `mapstructure:"RATE_LIMIT_BURST"`
	ClaraUpstreamURL    string  `mapstructure:"CLARA_UPSTREAM_URL"`
	ClaraTimeoutSeconds int     `mapstructure:"CLARA_TIMEOUT_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("CLARA_TIMEOUT_SECONDS", 15)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("JWT_ISSUER")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("CLARA_UPSTREAM_URL")
	v.BindEnv("CLARA_TIMEOUT_SECONDS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: ==========================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: All requests are attributed to the built-in dev provider.")
		log.Println("WARNING: Set ENV=production and JWT_SECRET for production use.")
		log.Println("WARNING: ==========================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. In production real
// JWT authentication must be enforced, so JWT_SECRET is required there.
func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "production" && c.Env != "test" {
		return fmt.Errorf("ENV must be \"development\", \"production\", or \"test\", got %q", c.Env)
	}
	if c.IsProduction() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production. " +
			"Refusing to start without authentication configuration")
	}
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes, got %d", len(c.JWTSecret))
	}
	if c.ClaraTimeoutSeconds <= 0 {
		return fmt.Errorf("CLARA_TIMEOUT_SECONDS must be positive, got %d", c.ClaraTimeoutSeconds)
	}
	return nil
}
