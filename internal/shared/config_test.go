package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./holocron.db" {
			t.Errorf("expected database path ./holocron.db, got %s", config.Database.Path)
		}

		if config.Log.Level != "info" {
			t.Errorf("expected log level info, got %s", config.Log.Level)
		}

		if config.Importer.BaseURL != "https://swapi.dev/api" {
			t.Errorf("expected importer base URL https://swapi.dev/api, got %s", config.Importer.BaseURL)
		}

		if config.Importer.Workers != 4 {
			t.Errorf("expected 4 importer workers, got %d", config.Importer.Workers)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[log]
level = "debug"

[importer]
base_url = "http://localhost:9999/api"
rate_limit = 2.5
workers = 8
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Database.MaxOpenConns != 20 {
			t.Errorf("expected max_open_conns 20, got %d", config.Database.MaxOpenConns)
		}
		if config.Importer.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", config.Importer.RateLimit)
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[database\npath = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error for malformed TOML")
		}
	})
}

func TestResolveConfig(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		config, err := ResolveConfig(filepath.Join(t.TempDir(), "absent.toml"), "")
		if err != nil {
			t.Fatalf("ResolveConfig() error = %v", err)
		}
		if config.Database.Path != "./holocron.db" {
			t.Errorf("expected default database path, got %s", config.Database.Path)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv(EnvDatabasePath, "/env/override.db")
		t.Setenv(EnvLogLevel, "warn")
		t.Setenv(EnvSWAPIURL, "http://swapi.local/api")
		t.Setenv(EnvRateLimit, "1.5")

		config, err := ResolveConfig("", "")
		if err != nil {
			t.Fatalf("ResolveConfig() error = %v", err)
		}

		if config.Database.Path != "/env/override.db" {
			t.Errorf("expected env database path, got %s", config.Database.Path)
		}
		if config.Log.Level != "warn" {
			t.Errorf("expected env log level, got %s", config.Log.Level)
		}
		if config.Importer.BaseURL != "http://swapi.local/api" {
			t.Errorf("expected env SWAPI URL, got %s", config.Importer.BaseURL)
		}
		if config.Importer.RateLimit != 1.5 {
			t.Errorf("expected env rate limit 1.5, got %v", config.Importer.RateLimit)
		}
	})

	t.Run("env file is loaded", func(t *testing.T) {
		t.Setenv(EnvDatabasePath, "")
		os.Unsetenv(EnvDatabasePath)
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte(EnvDatabasePath+"=/from/dotenv.db\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}

		config, err := ResolveConfig("", envPath)
		if err != nil {
			t.Fatalf("ResolveConfig() error = %v", err)
		}
		if config.Database.Path != "/from/dotenv.db" {
			t.Errorf("expected dotenv database path, got %s", config.Database.Path)
		}
	})

	t.Run("invalid rate limit", func(t *testing.T) {
		t.Setenv(EnvRateLimit, "fast")

		if _, err := ResolveConfig("", ""); err == nil {
			t.Error("expected error for non-numeric rate limit")
		}
	})
}
