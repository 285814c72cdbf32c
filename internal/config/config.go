package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Config holds runtime settings for the inventory tool.
// Values come from .inventory.yaml, .env, INVENTORY_* env vars and CLI flags.
type Config struct {
	DataDir         string `mapstructure:"data_dir"`
	Store           string `mapstructure:"store"`
	JSONPath        string `mapstructure:"json_path"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	CSVPath         string `mapstructure:"csv_path"`
	LogLevel        string `mapstructure:"log_level"`
	MetricsTextfile string `mapstructure:"metrics_textfile"`
}

// LoadDotenv reads a .env file from the working directory if there is one.
func LoadDotenv() {
	_ = godotenv.Load()
}

// Load reads configuration from v, applying defaults and deriving file paths
// from data_dir when they are not set explicitly.
func Load(v *viper.Viper) (Config, error) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("store", StoreJSON)
	v.SetDefault("json_path", "")
	v.SetDefault("sqlite_path", "")
	v.SetDefault("csv_path", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("metrics_textfile", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	switch cfg.Store {
	case StoreJSON, StoreSQLite:
	default:
		return Config{}, fmt.Errorf("unknown store %q (want %s or %s)", cfg.Store, StoreJSON, StoreSQLite)
	}

	if cfg.JSONPath == "" {
		cfg.JSONPath = filepath.Join(cfg.DataDir, "inventario.json")
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(cfg.DataDir, "inventario.db")
	}
	if cfg.CSVPath == "" {
		cfg.CSVPath = filepath.Join(cfg.DataDir, "inventario.csv")
	}
	return cfg, nil
}
