package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Data     DataConfig     `yaml:"data"`
	Log      LogConfig      `yaml:"log"`
	Client   ClientConfig   `yaml:"client"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout    Duration `yaml:"write_timeout,omitempty"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout,omitempty"`
	RateLimit       int      `yaml:"rate_limit"` // requests per minute per client, 0 disables
	AllowedOrigins  []string `yaml:"allowed_origins,omitempty"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// DataConfig holds the shape file store settings
type DataConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// ClientConfig holds outbound HTTP client settings
type ClientConfig struct {
	Timeout   Duration `yaml:"timeout,omitempty"`
	UserAgent string   `yaml:"user_agent,omitempty"`
	StatusURL string   `yaml:"status_url,omitempty"`
	SearchURL string   `yaml:"search_url,omitempty"`
	GitHubAPI string   `yaml:"github_api,omitempty"`
	FilmsURL  string   `yaml:"films_url,omitempty"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
