package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// AppConfig represents the complete application configuration
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Jobs     JobsConfig     `toml:"jobs"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Port int `toml:"port"`
}

// DatabaseConfig contains the Postgres connection settings
type DatabaseConfig struct {
	URL string `toml:"url"`
}

// RedisConfig contains cache connection settings
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// JobsConfig contains background job cadence and thresholds
type JobsConfig struct {
	ReconcileIntervalMinutes int    `toml:"reconcile_interval_minutes"`
	LowStockIntervalMinutes  int    `toml:"low_stock_interval_minutes"`
	LowStockThreshold        string `toml:"low_stock_threshold"`
}

// Load reads the TOML config file when present, then applies environment
// overrides. Environment variables win so deployments can keep one file.
func Load(filename string) (*AppConfig, error) {
	cfg := &AppConfig{
		Server: ServerConfig{Port: 8080},
		Redis:  RedisConfig{Addr: "localhost:6379"},
		Jobs: JobsConfig{
			ReconcileIntervalMinutes: 60,
			LowStockIntervalMinutes:  15,
			LowStockThreshold:        "10",
		},
	}

	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			if _, err := toml.DecodeFile(filename, cfg); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	applyEnv(cfg)

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database URL is required (set DATABASE_URL or database.url)")
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("LOW_STOCK_THRESHOLD"); v != "" {
		cfg.Jobs.LowStockThreshold = v
	}
}
