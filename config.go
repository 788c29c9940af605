package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the persistent settings. Everything here is a derived
// preference; no audio ever touches the config file.
type Config struct {
	Sensitivity float64  `toml:"sensitivity"` // [0,1], higher wakes on smaller stirrings
	WakeWindow  duration `toml:"wake_window"` // fallback alarm fires when this closes
	Device      string   `toml:"device"`      // capture device name, empty = system default
	Sound       bool     `toml:"sound"`       // audible chirps and ring
	Volume      float64  `toml:"volume"`      // [0,1] playback volume
}

// duration wraps time.Duration for TOML text values like "45m".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(b []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(b))
	return err
}

func defaultConfig() Config {
	return Config{
		Sensitivity: 0.5,
		WakeWindow:  duration{30 * time.Minute},
		Sound:       true,
		Volume:      1.0,
	}
}

// defaultConfigPath follows the same XDG convention as the log
// directory.
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "lark", "config.toml"), nil
}

// loadConfig reads the TOML config at path, or the default location
// when path is empty. A missing file yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	if cfg.Sensitivity < 0 || cfg.Sensitivity > 1 {
		return fmt.Errorf("sensitivity %v out of range [0,1]", cfg.Sensitivity)
	}
	if cfg.WakeWindow.Duration <= 0 {
		return fmt.Errorf("wake_window must be positive, got %v", cfg.WakeWindow.Duration)
	}
	if cfg.Volume < 0 || cfg.Volume > 1 {
		return fmt.Errorf("volume %v out of range [0,1]", cfg.Volume)
	}
	return nil
}
