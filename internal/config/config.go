package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	BackendURL     string
	DBPath         string
	ServerPort     string
	LogLevel       string
	CardCatalogTTL time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		BackendURL:     getEnv("LMS_BACKEND_URL", "http://localhost:8080/api"),
		DBPath:         getEnv("DB_PATH", "lms.db"),
		ServerPort:     getEnv("SERVER_PORT", "8090"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CardCatalogTTL: 5 * time.Minute,
	}

	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("LMS_BACKEND_URL is required")
	}

	logger.Info().
		Str("backend_url", cfg.BackendURL).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("card_catalog_ttl", cfg.CardCatalogTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
