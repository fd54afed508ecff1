package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	SearchInsensitive = "insensitive" // LIKE в SQLite по умолчанию игнорирует регистр для ASCII
	SearchSensitive   = "sensitive"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Port         string `toml:"port"`
	DatabasePath string `toml:"db_path"`
	SearchMode   string `toml:"search_mode"`
	LogLevel     string `toml:"log_level"`
}

func Default() Config {
	return Config{
		Port:         "8080",
		DatabasePath: "task_tracker.db",
		SearchMode:   SearchInsensitive,
		LogLevel:     "info",
	}
}

// Load собирает конфиг: значения по умолчанию -> TOML файл (если задан) -> переменные окружения.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("TASKS_CONFIG")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabasePath = getEnv("TASKS_DB_PATH", cfg.DatabasePath)
	cfg.SearchMode = getEnv("TASKS_SEARCH_MODE", cfg.SearchMode)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: db_path is empty", ErrInvalidConfig)
	}
	switch c.SearchMode {
	case SearchInsensitive, SearchSensitive:
	default:
		return fmt.Errorf("%w: unknown search_mode %q", ErrInvalidConfig, c.SearchMode)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
