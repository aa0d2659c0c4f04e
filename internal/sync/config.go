// ABOUTME: Sync configuration: server URL, user id, device id, auto-sync flag.
// ABOUTME: Stored as sync.json under the XDG config directory.
package sync

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
)

// Config stores sync settings.
type Config struct {
	Server   string `json:"server"`
	UserID   string `json:"user_id"`
	DeviceID string `json:"device_id"`
	AutoSync bool   `json:"auto_sync"`
}

// ConfigDir returns the XDG config directory for stepbox sync.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stepbox")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stepbox")
}

// ConfigPath returns the path to the sync config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "sync.json")
}

// LoadConfig loads sync config from disk. A missing file yields a fresh
// config with a generated device id.
func LoadConfig() (*Config, error) {
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{DeviceID: GenerateDeviceID()}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.DeviceID == "" {
		cfg.DeviceID = GenerateDeviceID()
	}
	return &cfg, nil
}

// SaveConfig persists sync config to disk.
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

// IsConfigured returns true if a server has been set.
func (c *Config) IsConfigured() bool {
	return c.Server != ""
}

// GenerateDeviceID creates a new unique device ID.
func GenerateDeviceID() string {
	return ulid.Make().String()
}
