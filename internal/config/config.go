// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Auth       AuthConfig       `mapstructure:"auth"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Inaportnet InaportnetConfig `mapstructure:"inaportnet"`
	Ditkapel   DitkapelConfig   `mapstructure:"ditkapel"`
	Ports      PortsConfig      `mapstructure:"ports"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// HTTPConfig configures upstream client retry behavior.
type HTTPConfig struct {
	MaxRetries       int    `mapstructure:"max_retries"`
	BackoffInitialMs int    `mapstructure:"backoff_initial_ms"`
	UserAgent        string `mapstructure:"user_agent"`
}

// InaportnetConfig governs the activity-feed client.
type InaportnetConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	ChunkSize    int    `mapstructure:"chunk_size"`
	ChunkDelayMs int    `mapstructure:"chunk_delay_ms"`
	MonthDelayMs int    `mapstructure:"month_delay_ms"`
}

// DitkapelConfig governs the vessel-registry client.
type DitkapelConfig struct {
	BaseURL          string `mapstructure:"base_url"`
	BackoffInitialMs int    `mapstructure:"backoff_initial_ms"`
	DirectLimit      int    `mapstructure:"direct_limit"`
	BatchLimit       int    `mapstructure:"batch_limit"`
	GroupSize        int    `mapstructure:"group_size"`
	GroupDelayMs     int    `mapstructure:"group_delay_ms"`
}

// PortsConfig locates the port directory file.
type PortsConfig struct {
	File string `mapstructure:"file"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PORTMON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("http.max_retries", 3)
	v.SetDefault("http.backoff_initial_ms", 1000)
	v.SetDefault("http.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("inaportnet.base_url", "https://monitoring-inaportnet.dephub.go.id")
	v.SetDefault("inaportnet.chunk_size", 1000)
	v.SetDefault("inaportnet.chunk_delay_ms", 200)
	v.SetDefault("inaportnet.month_delay_ms", 500)
	v.SetDefault("ditkapel.base_url", "https://kapal.dephub.go.id")
	v.SetDefault("ditkapel.backoff_initial_ms", 2000)
	v.SetDefault("ditkapel.direct_limit", 200)
	v.SetDefault("ditkapel.batch_limit", 20)
	v.SetDefault("ditkapel.group_size", 3)
	v.SetDefault("ditkapel.group_delay_ms", 1000)
	v.SetDefault("ports.file", "pelabuhan.json")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.HTTP.MaxRetries <= 0 {
		return fmt.Errorf("http.max_retries must be > 0")
	}
	if c.Inaportnet.ChunkSize <= 0 {
		return fmt.Errorf("inaportnet.chunk_size must be > 0")
	}
	if c.Ditkapel.GroupSize <= 0 {
		return fmt.Errorf("ditkapel.group_size must be > 0")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	return nil
}

// ListBackoff is the initial backoff step for the activity feed.
func (c Config) ListBackoff() time.Duration {
	return time.Duration(c.HTTP.BackoffInitialMs) * time.Millisecond
}

// RegistryBackoff is the initial backoff step for the vessel registry.
func (c Config) RegistryBackoff() time.Duration {
	return time.Duration(c.Ditkapel.BackoffInitialMs) * time.Millisecond
}
