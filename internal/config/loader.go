package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v10"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the daemon. Zero values mean
// "unspecified" and are replaced by defaults in main.
type Config struct {
	Addr           string   `json:"addr" yaml:"addr" toml:"addr" env:"NAPD_ADDR"`
	Backend        string   `json:"backend" yaml:"backend" toml:"backend" env:"NAPD_BACKEND"`
	LogLevel       string   `json:"log_level" yaml:"log_level" toml:"log_level" env:"NAPD_LOG_LEVEL"`
	EventQueueSize int      `json:"event_queue_size" yaml:"event_queue_size" toml:"event_queue_size" env:"NAPD_EVENT_QUEUE_SIZE"`
	MaxBodyBytes   int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes" env:"NAPD_MAX_BODY_BYTES"`
	CORSEnabled    bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled" env:"NAPD_CORS_ENABLED"`
	CORSOrigins    []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins" env:"NAPD_CORS_ORIGINS" envSeparator:","`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ApplyEnv overlays NAPD_* environment variables onto cfg. Unset variables
// leave the existing values untouched.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
