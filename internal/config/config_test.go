package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"DataDir", cfg.DataDir, "data"},
		{"Store", cfg.Store, StoreJSON},
		{"JSONPath", cfg.JSONPath, filepath.Join("data", "inventario.json")},
		{"SQLitePath", cfg.SQLitePath, filepath.Join("data", "inventario.db")},
		{"CSVPath", cfg.CSVPath, filepath.Join("data", "inventario.csv")},
		{"LogLevel", cfg.LogLevel, "warn"},
		{"MetricsTextfile", cfg.MetricsTextfile, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INVENTORY_DATA_DIR", "/tmp/stock")
	t.Setenv("INVENTORY_STORE", "SQLite")
	t.Setenv("INVENTORY_CSV_PATH", "/tmp/out.csv")

	v := viper.New()
	v.SetEnvPrefix("INVENTORY")
	v.AutomaticEnv()

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Store != StoreSQLite {
		t.Errorf("Store = %q, want %q", cfg.Store, StoreSQLite)
	}
	if want := filepath.Join("/tmp/stock", "inventario.db"); cfg.SQLitePath != want {
		t.Errorf("SQLitePath = %q, want %q", cfg.SQLitePath, want)
	}
	if cfg.CSVPath != "/tmp/out.csv" {
		t.Errorf("CSVPath = %q, want /tmp/out.csv", cfg.CSVPath)
	}
}

func TestLoad_UnknownStore(t *testing.T) {
	v := viper.New()
	v.Set("store", "postgres")

	if _, err := Load(v); err == nil {
		t.Fatal("expected error for unknown store")
	}
}
