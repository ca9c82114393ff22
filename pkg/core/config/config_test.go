package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	fdlerr "github.com/msto63/fdl/pkg/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "250ms", 250 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{5 * time.Minute}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "5m0s" {
		t.Errorf("MarshalText() = %v, want 5m0s", string(result))
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := Default()

	if cfg.General.Name != "fdl" {
		t.Errorf("General.Name = %v, want fdl", cfg.General.Name)
	}
	if cfg.General.LogLevel != "warn" {
		t.Errorf("General.LogLevel = %v, want warn", cfg.General.LogLevel)
	}
	if cfg.General.LogFormat != "text" {
		t.Errorf("General.LogFormat = %v, want text", cfg.General.LogFormat)
	}
	if cfg.Viewer.Indent != 4 {
		t.Errorf("Viewer.Indent = %v, want 4", cfg.Viewer.Indent)
	}
	if cfg.Viewer.Debounce.Duration != 300*time.Millisecond {
		t.Errorf("Viewer.Debounce = %v, want 300ms", cfg.Viewer.Debounce.Duration)
	}
	if cfg.Server.Port != 8420 {
		t.Errorf("Server.Port = %v, want 8420", cfg.Server.Port)
	}
	if cfg.Server.MaxSourceSize != 1<<20 {
		t.Errorf("Server.MaxSourceSize = %v, want 1MiB", cfg.Server.MaxSourceSize)
	}
	if cfg.Server.CacheSize != 256 || cfg.Server.CacheTTL.Duration != 10*time.Minute {
		t.Errorf("Server cache = %v/%v, want 256/10m", cfg.Server.CacheSize, cfg.Server.CacheTTL.Duration)
	}
	if cfg.Store.Path != filepath.Join("./data", "snapshots.db") {
		t.Errorf("Store.Path = %v", cfg.Store.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestConfig_ServerAddress(t *testing.T) {
	cfg := Default()
	if got := cfg.ServerAddress(); got != "127.0.0.1:8420" {
		t.Errorf("ServerAddress() = %v, want 127.0.0.1:8420", got)
	}
	cfg.Server.Host = "::1"
	if got := cfg.ServerAddress(); got != "[::1]:8420" {
		t.Errorf("ServerAddress() = %v, want [::1]:8420", got)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/fdl.toml")
	if err == nil {
		t.Fatal("Load() expected error for non-existent file")
	}
	if !fdlerr.HasCode(err, fdlerr.CodeNotFound) {
		t.Errorf("Load() error code = %v, want NOT_FOUND", fdlerr.GetCode(err))
	}
}

func TestLoad_TOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "fdl.toml")
	content := `
[general]
log_level = "debug"
log_format = "json"

[server]
port = 9999
host = "0.0.0.0"
read_timeout = "5s"

[viewer]
hide_props = true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.LogLevel != "debug" {
		t.Errorf("General.LogLevel = %v, want debug", cfg.General.LogLevel)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %v, want 9999", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout.Duration)
	}
	if !cfg.Viewer.HideProps {
		t.Error("Viewer.HideProps = false, want true")
	}

	// Defaults fill the rest
	if cfg.Server.WriteTimeout.Duration != 30*time.Second {
		t.Errorf("Server.WriteTimeout = %v, want 30s (default)", cfg.Server.WriteTimeout.Duration)
	}
}

func TestLoad_YAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "fdl.yaml")
	content := `
general:
  log_level: info
viewer:
  indent: 2
  debounce: 1s
store:
  path: /tmp/snapshots.db
  disable_compression: true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Viewer.Indent != 2 {
		t.Errorf("Viewer.Indent = %v, want 2", cfg.Viewer.Indent)
	}
	if cfg.Viewer.Debounce.Duration != time.Second {
		t.Errorf("Viewer.Debounce = %v, want 1s", cfg.Viewer.Debounce.Duration)
	}
	if cfg.Store.Path != "/tmp/snapshots.db" || !cfg.Store.DisableCompression {
		t.Errorf("Store = %+v", cfg.Store)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[general\nlog_level = "},
		{"bad level", "[general]\nlog_level = \"loud\""},
		{"bad port", "[server]\nport = 70000"},
		{"bad indent", "[viewer]\nindent = 40"},
		{"bad cache size", "[server]\ncache_size = -5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "fdl.toml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(configPath)
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !fdlerr.HasCode(err, fdlerr.CodeConfig) {
				t.Errorf("error code = %v, want CONFIG", fdlerr.GetCode(err))
			}
		})
	}
}

func TestConfig_expandEnvVars(t *testing.T) {
	t.Setenv("FDL_TEST_HOME", "/srv/fdl")

	cfg := &Config{
		General: GeneralConfig{DataDir: "$FDL_TEST_HOME/data"},
		Store:   StoreConfig{Path: "${FDL_TEST_HOME}/db.sqlite"},
	}
	cfg.expandEnvVars()

	if cfg.General.DataDir != "/srv/fdl/data" {
		t.Errorf("DataDir = %v, want /srv/fdl/data", cfg.General.DataDir)
	}
	if cfg.Store.Path != "/srv/fdl/db.sqlite" {
		t.Errorf("Store.Path = %v, want /srv/fdl/db.sqlite", cfg.Store.Path)
	}
}

func TestLoadFromEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(configPath, []byte("[server]\nport = 7000\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, configPath)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %v, want 7000", cfg.Server.Port)
	}
}

func TestLoadFromEnv_NoConfigFound(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv("HOME", t.TempDir())

	originalWd, _ := os.Getwd()
	os.Chdir(t.TempDir())
	defer os.Chdir(originalWd)

	_, err := LoadFromEnv()
	if err == nil {
		t.Fatal("LoadFromEnv() expected error when no config found")
	}
	if !fdlerr.HasCode(err, fdlerr.CodeNotFound) {
		t.Errorf("error code = %v, want NOT_FOUND", fdlerr.GetCode(err))
	}
}

func TestConfig_Override(t *testing.T) {
	v := viper.New()
	v.Set(KeyLogLevel, "debug")
	v.Set(KeyServerPort, 9001)
	v.Set(KeyHideProps, true)

	cfg := Default()
	if err := cfg.Override(v); err != nil {
		t.Fatalf("Override() error = %v", err)
	}
	if cfg.General.LogLevel != "debug" {
		t.Errorf("LogLevel = %v, want debug", cfg.General.LogLevel)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("Server.Port = %v, want 9001", cfg.Server.Port)
	}
	if !cfg.Viewer.HideProps {
		t.Error("HideProps not applied")
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("unset key changed Host to %v", cfg.Server.Host)
	}

	v.Set(KeyServerPort, 0)
	if err := cfg.Override(v); err == nil {
		t.Error("Override() accepted port 0")
	}
}

func TestConfig_OverrideDataDirMovesDerivedStore(t *testing.T) {
	v := viper.New()
	v.Set(KeyDataDir, "/var/lib/fdl")

	cfg := Default()
	if err := cfg.Override(v); err != nil {
		t.Fatalf("Override() error = %v", err)
	}
	if want := filepath.Join("/var/lib/fdl", "snapshots.db"); cfg.Store.Path != want {
		t.Errorf("Store.Path = %v, want %v", cfg.Store.Path, want)
	}

	cfg = Default()
	cfg.Store.Path = "/tmp/custom.db"
	if err := cfg.Override(v); err != nil {
		t.Fatalf("Override() error = %v", err)
	}
	if cfg.Store.Path != "/tmp/custom.db" {
		t.Errorf("explicit Store.Path changed to %v", cfg.Store.Path)
	}
}
