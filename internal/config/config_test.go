package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("Load() = %+v, want defaults", cfg)
	}
	if Exists() {
		t.Fatal("Exists() = true with no file")
	}
}

func TestSaveLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvLogLevel, "")

	cfg := DefaultConfig()
	cfg.Appearance.DarkTheme = "terminal"
	cfg.Daemon.Addr = "127.0.0.1:9999"
	cfg.General.DBPath = "/tmp/q.db"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != cfg {
		t.Fatalf("Load() = %+v, want %+v", got, cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"warn\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvDBPath, "/env/q.db")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.DBPath() != "/env/q.db" {
		t.Fatalf("DBPath() = %q, want /env/q.db", cfg.DBPath())
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Appearance.LightTheme != "flexoki-light" {
		t.Fatalf("LightTheme = %q, want default flexoki-light", cfg.Appearance.LightTheme)
	}
}

func TestBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("LoadFrom() with malformed TOML returned nil error")
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultDBPath(); got != filepath.Join("/data", "quotaclock", "quotaclock.db") {
		t.Fatalf("DefaultDBPath() = %q", got)
	}
	if got := DefaultConfig().ThemeName(true); got != "flexoki-dark" {
		t.Fatalf("ThemeName(true) = %q, want flexoki-dark", got)
	}
}
