package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	want := defaultConfig()
	if cfg != want {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
sensitivity = 0.8
wake_window = "45m"
device = "USB Condenser"
sound = false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Sensitivity != 0.8 {
		t.Errorf("Sensitivity = %v, want 0.8", cfg.Sensitivity)
	}
	if cfg.WakeWindow.Duration != 45*time.Minute {
		t.Errorf("WakeWindow = %v, want 45m", cfg.WakeWindow.Duration)
	}
	if cfg.Device != "USB Condenser" {
		t.Errorf("Device = %q", cfg.Device)
	}
	if cfg.Sound {
		t.Error("Sound = true, want false")
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("sensitivity = 0.2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Sensitivity != 0.2 {
		t.Errorf("Sensitivity = %v, want 0.2", cfg.Sensitivity)
	}
	// Unset keys keep their defaults.
	if cfg.WakeWindow.Duration != 30*time.Minute {
		t.Errorf("WakeWindow = %v, want default 30m", cfg.WakeWindow.Duration)
	}
	if !cfg.Sound {
		t.Error("Sound should default to true")
	}
}

func TestLoadConfigBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("sensitivity = {"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"sensitivity floor", func(c *Config) { c.Sensitivity = 0 }, false},
		{"sensitivity ceiling", func(c *Config) { c.Sensitivity = 1 }, false},
		{"sensitivity too high", func(c *Config) { c.Sensitivity = 1.1 }, true},
		{"sensitivity negative", func(c *Config) { c.Sensitivity = -0.1 }, true},
		{"zero window", func(c *Config) { c.WakeWindow = duration{0} }, true},
		{"negative window", func(c *Config) { c.WakeWindow = duration{-time.Minute} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(&cfg)
			err := validateConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
