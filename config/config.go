package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const devSessionSecret = "dev_secret_change_me"

type Config struct {
	GeneralVersion    string `mapstructure:"GENERAL_VERSION"`
	Environment       string `mapstructure:"ENVIRONMENT"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	ServerPort        int    `mapstructure:"SERVER_PORT"`
	ServerCorsOrigins string `mapstructure:"SERVER_CORS_ORIGINS"`

	DatabaseDbPath       string `mapstructure:"DB_PATH"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`

	SecuritySessionSecret   string `mapstructure:"SECURITY_SESSION_SECRET"`
	SecuritySessionTTLHours int    `mapstructure:"SECURITY_SESSION_TTL_HOURS"`
	SecurityCookieName      string `mapstructure:"SECURITY_COOKIE_NAME"`
	SecurityCookieSecure    bool   `mapstructure:"SECURITY_COOKIE_SECURE"`

	ModelPath        string `mapstructure:"MODEL_PATH"`
	ModelColumnsPath string `mapstructure:"MODEL_COLUMNS_PATH"`

	SeedAdminEmail    string `mapstructure:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `mapstructure:"SEED_ADMIN_PASSWORD"`
}

var keys = []string{
	"GENERAL_VERSION",
	"ENVIRONMENT",
	"LOG_LEVEL",
	"SERVER_PORT",
	"SERVER_CORS_ORIGINS",
	"DB_PATH",
	"DB_CACHE_ADDRESS",
	"DB_CACHE_PORT",
	"SECURITY_SESSION_SECRET",
	"SECURITY_SESSION_TTL_HOURS",
	"SECURITY_COOKIE_NAME",
	"SECURITY_COOKIE_SECURE",
	"MODEL_PATH",
	"MODEL_COLUMNS_PATH",
	"SEED_ADMIN_EMAIL",
	"SEED_ADMIN_PASSWORD",
}

// InitConfig reads configuration from the environment, after loading a .env
// file when one is present.
func InitConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if config.SecuritySessionSecret == "" && config.IsDevelopment() {
		slog.Warn("SECURITY_SESSION_SECRET is not set, using the development secret")
		config.SecuritySessionSecret = devSessionSecret
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GENERAL_VERSION", "dev")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DB_PATH", "data/healthtrack.sqlite")
	v.SetDefault("DB_CACHE_PORT", 6379)
	v.SetDefault("SECURITY_SESSION_TTL_HOURS", 24)
	v.SetDefault("SECURITY_COOKIE_NAME", "healthtrack_session")
	v.SetDefault("MODEL_PATH", "models_saved/model.json")
	v.SetDefault("MODEL_COLUMNS_PATH", "models_saved/columns.json")
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// CacheEnabled reports whether a valkey address is configured.
func (c Config) CacheEnabled() bool {
	return c.DatabaseCacheAddress != ""
}

func (c Config) Validate() error {
	if c.SecuritySessionSecret == "" {
		return errors.New("SECURITY_SESSION_SECRET is required outside development")
	}
	if c.IsProduction() && c.SecuritySessionSecret == devSessionSecret {
		return errors.New("SECURITY_SESSION_SECRET must be changed in production")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.SecuritySessionTTLHours <= 0 {
		return fmt.Errorf("SECURITY_SESSION_TTL_HOURS must be positive, got %d", c.SecuritySessionTTLHours)
	}
	if c.CacheEnabled() && c.DatabaseCachePort <= 0 {
		return fmt.Errorf("DB_CACHE_PORT must be positive when DB_CACHE_ADDRESS is set")
	}
	return nil
}
