package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/appskottage/AKSalat/internal/method"
)

// Config holds environment-based settings
type Config struct {
	Environment    string
	LogLevel       string
	ServerAddress  string
	DatabaseURL    string
	MigrationsPath string

	RedisAddress     string
	RedisUsername    string
	RedisPassword    string
	SettingsCacheTTL time.Duration

	MQTTBrokerURL string

	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string

	AladhanBaseURL string
	DefaultMethod  method.Method
}

// Load reads configuration from environment variables, after loading a .env
// file from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not read .env: %w", err)
	} else if err == nil {
		log.Debug().Msg("loaded .env")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Environment:       withDefault(getenv("APP_ENV"), "development"),
		LogLevel:          withDefault(getenv("LOG_LEVEL"), "info"),
		ServerAddress:     withDefault(getenv("SERVER_ADDRESS"), ":8080"),
		DatabaseURL:       getenv("DATABASE_URL"),
		MigrationsPath:    withDefault(getenv("MIGRATIONS_PATH"), "./migrations"),
		RedisAddress:      getenv("REDIS_ADDRESS"),
		RedisUsername:     getenv("REDIS_USERNAME"),
		RedisPassword:     getenv("REDIS_PASSWORD"),
		MQTTBrokerURL:     getenv("MQTT_BROKER_URL"),
		JWTSecret:         getenv("JWT_SECRET"),
		AdminEmail:        getenv("ADMIN_EMAIL"),
		AdminPasswordHash: getenv("ADMIN_PASSWORD_HASH"),
		AladhanBaseURL:    withDefault(getenv("ALADHAN_BASE_URL"), "https://api.aladhan.com/v1"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	ttl, err := time.ParseDuration(withDefault(getenv("SETTINGS_CACHE_TTL"), "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SETTINGS_CACHE_TTL: %w", err)
	}
	cfg.SettingsCacheTTL = ttl

	m, err := method.Parse(withDefault(getenv("DEFAULT_METHOD"), method.MuslimWorldLeague.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_METHOD: %w", err)
	}
	cfg.DefaultMethod = m

	return cfg, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
