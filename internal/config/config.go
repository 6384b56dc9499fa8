// Package config provides configuration management for almostcircle.
//
// Config file locations (priority order):
//  1. $CIRCLE_CONFIG
//  2. ./circle.yaml
//  3. $XDG_CONFIG_HOME/circle/config.yaml
//  4. ~/.config/circle/config.yaml
//  5. /etc/circle/config.yaml
//
// Environment variables override file values for the settings most often
// changed per deployment: $CIRCLE_ADDR, $CIRCLE_DB, $CIRCLE_DATA_DIR and
// $LOG_LEVEL.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr      = ":3000"
	DefaultDBPath    = "./circle.db"
	DefaultDataDir   = "./data"
	DefaultStatusURL = "https://alx-intranet.hbtn.io/status"
	DefaultSearchURL = "http://0.0.0.0:5000/search_user"
	DefaultGitHubAPI = "https://api.github.com"
	DefaultFilmsURL  = "https://swapi-api.alx-tools.com/api/films/"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, path, nil
}

// Save writes config to path, creating its directory
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(10 * time.Second)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(30 * time.Second)
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDBPath
	}
	if c.Data.Dir == "" {
		c.Data.Dir = DefaultDataDir
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Client.Timeout == 0 {
		c.Client.Timeout = Duration(15 * time.Second)
	}
	if c.Client.UserAgent == "" {
		c.Client.UserAgent = "almostcircle/1"
	}
	if c.Client.StatusURL == "" {
		c.Client.StatusURL = DefaultStatusURL
	}
	if c.Client.SearchURL == "" {
		c.Client.SearchURL = DefaultSearchURL
	}
	if c.Client.GitHubAPI == "" {
		c.Client.GitHubAPI = DefaultGitHubAPI
	}
	if c.Client.FilmsURL == "" {
		c.Client.FilmsURL = DefaultFilmsURL
	}
}

// applyEnv overrides file values with environment variables
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must be >= 0, got %d", c.Server.RateLimit)
	}
	if c.Client.Timeout.Duration() < 0 {
		return fmt.Errorf("client.timeout must be >= 0, got %s", c.Client.Timeout.Duration())
	}
	return nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Listen: %s, Database: %s\n", c.Server.Addr, c.Database.Path)
	summary += fmt.Sprintf("Data dir: %s (watch: %v), Log level: %s", c.Data.Dir, c.Data.Watch, c.Log.Level)
	return summary
}
