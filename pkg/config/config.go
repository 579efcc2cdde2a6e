/*
Package config manages YAML config for the Scribe service.

InitConfig handles automatic config file creation and loading with fallback
to defaults. LoadConfig and SaveConfig provide direct fs access for runtime
changes.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

const (
	mongoScheme    = "mongodb://"
	mongoSrvScheme = "mongodb+srv://"
)

// Config is the entire service configuration.
type Config struct {
	IP       string `yaml:"ip"`
	Port     uint16 `yaml:"port"`
	StoreURL string `yaml:"store_url"`
}

// DefaultConfig returns a Config that binds locally and selects the
// in-memory relational store (empty StoreURL).
func DefaultConfig() *Config {
	return &Config{
		IP:       "127.0.0.1",
		Port:     8080,
		StoreURL: "",
	}
}

// InitConfig loads config from path, or creates a default file there if
// none exists yet.
func InitConfig(path string) (*Config, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, path); err != nil {
			return nil, err
		}
		log.Debugf("created default config file at: ( %s )", path)
		return cfg, nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		log.Warnf("failed to load config, using defaults: %v", err)
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// LoadConfig loads from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("failed to read config file: %v", err)
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Errorf("failed to decode config file: %v", err)
		return nil, fmt.Errorf("config: malformed yaml: %w", err)
	}
	return &cfg, nil
}

// SaveConfig saves into a YAML file.
func SaveConfig(cfg *Config, path string) error {
	file, err := os.Create(path)
	if err != nil {
		log.Errorf("failed to create config file: %v", err)
		return err
	}
	defer file.Close()
	encoder := yaml.NewEncoder(file)
	defer encoder.Close()
	return encoder.Encode(cfg)
}

// UsesDocStore reports whether StoreURL selects the document-store backend
// over the default in-memory relational one.
func (c *Config) UsesDocStore() bool {
	return hasPrefix(c.StoreURL, mongoScheme) || hasPrefix(c.StoreURL, mongoSrvScheme)
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
