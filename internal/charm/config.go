// ABOUTME: Configuration for the Charm KV mirror.
// ABOUTME: Handles charm server settings and XDG config paths.

package charm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Duration is a time.Duration written as a string such as "15m" in JSON.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"15m\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

type Config struct {
	// CharmHost is the charm server host (default: charm.2389.dev).
	CharmHost string `json:"charm_host,omitempty"`

	// AutoSync syncs after every write (default: true).
	AutoSync bool `json:"auto_sync"`

	// StaleThreshold triggers a sync before reads when the last sync is
	// older. Zero disables it.
	StaleThreshold Duration `json:"stale_threshold,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		CharmHost: "charm.2389.dev",
		AutoSync:  true,
	}
}

func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "post")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "charm.json")
}

// LoadConfig reads the config file, falling back to defaults when it does
// not exist.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ConfigPath(), err)
	}

	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(), 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(), data, 0600)
}

func ConfigExists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
