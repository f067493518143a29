package initializers

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const defaultSecret = "hoshii-dev-secret-change-me"

type AppConfig struct {
	Port              string  `mapstructure:"PORT"`
	DBURL             string  `mapstructure:"DB_URL"`
	RedisURL          string  `mapstructure:"REDIS_URL"`
	Secret            string  `mapstructure:"SECRET"`
	AdminPasswordHash string  `mapstructure:"ADMIN_PASSWORD_HASH"`
	Env               string  `mapstructure:"APP_ENV"`
	DefaultSkyID      string  `mapstructure:"DEFAULT_SKY_ID"`
	AdminPurgeSkyID   string  `mapstructure:"ADMIN_PURGE_SKY_ID"`
	SeedContainerName string  `mapstructure:"SEED_CONTAINER_NAME"`
	RequireKnownSky   bool    `mapstructure:"REQUIRE_KNOWN_SKY"`
	StrictActions     bool    `mapstructure:"STRICT_ACTIONS"`
	SupportRatePerSec float64 `mapstructure:"SUPPORT_RATE_PER_SEC"`
	SupportBurst      int     `mapstructure:"SUPPORT_BURST"`
}

// SupportWindow is the fixed window that admits SupportBurst submissions at
// SupportRatePerSec; the shared Redis limiter counts per window.
func (c *AppConfig) SupportWindow() time.Duration {
	return time.Duration(float64(c.SupportBurst) / c.SupportRatePerSec * float64(time.Second))
}

var Config *AppConfig

// LoadConfig reads configuration from the environment, applying defaults for
// local development, and stores the result in Config.
func LoadConfig() (*AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("SECRET", defaultSecret)
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DEFAULT_SKY_ID", "leapday")
	v.SetDefault("ADMIN_PURGE_SKY_ID", "leapday")
	v.SetDefault("SEED_CONTAINER_NAME", "Hoshii preset actions")
	v.SetDefault("REQUIRE_KNOWN_SKY", true)
	v.SetDefault("STRICT_ACTIONS", false)
	v.SetDefault("SUPPORT_RATE_PER_SEC", 1.0)
	v.SetDefault("SUPPORT_BURST", 5)

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	Config = &cfg
	return &cfg, nil
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func (c *AppConfig) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.Secret == "" {
		return errors.New("SECRET is required")
	}
	if c.SupportRatePerSec <= 0 || c.SupportBurst <= 0 {
		return errors.New("SUPPORT_RATE_PER_SEC and SUPPORT_BURST must be positive")
	}

	if c.IsProduction() {
		if c.Secret == defaultSecret || len(c.Secret) < 32 {
			return errors.New("SECRET must be changed and at least 32 characters in production")
		}
		if c.DBURL == "" {
			return errors.New("DB_URL is required in production")
		}
	}
	return nil
}
