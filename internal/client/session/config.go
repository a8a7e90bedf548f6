// FILE: othello/internal/client/session/config.go
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/adrg/xdg"
)

const (
	configFile  = "othello/client.json"
	historyFile = "othello/history"
)

// Config is the persisted client configuration
type Config struct {
	APIBaseURL string `json:"apiUrl"`
	Username   string `json:"username,omitempty"` // Last login, offered as default
}

var DefaultConfig = Config{
	APIBaseURL: "http://localhost:8080",
}

// LoadConfig reads the client config from the XDG config directories,
// falling back to defaults when none exists
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig
	path, err := xdg.SearchConfigFile(configFile)
	if err != nil {
		return &cfg, nil
	}
	if err = readConfig(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to the user XDG config directory
func (c *Config) Save() error {
	path, err := xdg.ConfigFile(configFile)
	if err != nil {
		return fmt.Errorf("locate config file: %w", err)
	}
	return writeConfig(path, c, 0o644)
}

// HistoryPath returns the readline history location, creating its directory
func HistoryPath() (string, error) {
	return xdg.DataFile(historyFile)
}

func readConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultConfig.APIBaseURL
	}
	return nil
}

func writeConfig(path string, cfg *Config, perm fs.FileMode) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}
