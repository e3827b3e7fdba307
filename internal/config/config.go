package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int    `validate:"required,gt=0,lt=65536"`
	DatabasePath string `validate:"required"`
	SecretKey    string `validate:"required"`
	CORSOrigins  []string
	Env          string        `validate:"oneof=development production test"`
	LogLevel     string        `validate:"oneof=trace debug info warn error"`
	TokenTTL     time.Duration `validate:"gt=0"`
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads an optional .env file from the working directory, then resolves
// configuration from environment variables, falling back to defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()
	v.SetDefault("PORT", 5000)
	v.SetDefault("DATABASE_URL", "database/life_planner.db")
	v.SetDefault("SECRET_KEY", "fallback-secret-key-for-development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TOKEN_TTL_HOURS", 24*30)
	v.AutomaticEnv()

	cfg := &Config{
		ServerPort:   v.GetInt("PORT"),
		DatabasePath: strings.TrimPrefix(v.GetString("DATABASE_URL"), "sqlite:///"),
		SecretKey:    v.GetString("SECRET_KEY"),
		CORSOrigins:  splitList(v.GetString("CORS_ORIGINS")),
		Env:          strings.ToLower(v.GetString("APP_ENV")),
		LogLevel:     strings.ToLower(v.GetString("LOG_LEVEL")),
		TokenTTL:     time.Duration(v.GetInt("TOKEN_TTL_HOURS")) * time.Hour,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
