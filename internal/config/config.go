// internal/config/config.go - Configuration management
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/danielsivyer4567/parcelmeter/internal"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Source  SourceConfig  `mapstructure:"source"`
	Loader  LoaderConfig  `mapstructure:"loader"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Network NetworkConfig `mapstructure:"network"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig contains tile server configuration for HTTP sources
type ServerConfig struct {
	BaseURL string            `mapstructure:"base_url"`
	APIKey  string            `mapstructure:"api_key"`
	Headers map[string]string `mapstructure:"headers"`
	Timeout time.Duration     `mapstructure:"timeout"`
}

// StoreConfig contains configuration for the local tile store
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// SourceConfig determines the tile data source type
type SourceConfig struct {
	Type       string `mapstructure:"type"`
	AutoDetect bool   `mapstructure:"auto_detect"`
}

// LoaderConfig contains viewport loader configuration
type LoaderConfig struct {
	// RetryFailedTiles forgets a tile on fetch failure so a later viewport
	// pass can request it again. Off by default: a tile is marked seen
	// regardless of outcome.
	RetryFailedTiles bool `mapstructure:"retry_failed_tiles"`
	MinZoom          int  `mapstructure:"min_zoom"`
	MaxZoom          int  `mapstructure:"max_zoom"`
}

// CacheConfig contains in-memory tile cache configuration
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Expiration time.Duration `mapstructure:"expiration"`
	Cleanup    time.Duration `mapstructure:"cleanup"`
}

// NetworkConfig contains network-related configuration
type NetworkConfig struct {
	ProxyURL         string        `mapstructure:"proxy_url"`
	UserAgent        string        `mapstructure:"user_agent"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns"`
	IdleConnTimeout  time.Duration `mapstructure:"idle_conn_timeout"`
	DisableKeepAlive bool          `mapstructure:"disable_keep_alive"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	Verbose bool   `mapstructure:"verbose"`
}

// Load loads configuration from various sources
func Load() (*Config, error) {
	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults configures default values for all configuration options
func setDefaults() {
	// Source defaults
	viper.SetDefault("source.type", "http")
	viper.SetDefault("source.auto_detect", true)

	// Server defaults
	viper.SetDefault("server.timeout", 30*time.Second)

	// Loader defaults
	viper.SetDefault("loader.retry_failed_tiles", false)
	viper.SetDefault("loader.min_zoom", 0)
	viper.SetDefault("loader.max_zoom", 22)

	// Cache defaults
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.expiration", 10*time.Minute)
	viper.SetDefault("cache.cleanup", 30*time.Minute)

	// Network defaults
	viper.SetDefault("network.user_agent", "parcelmeter/1.0")
	viper.SetDefault("network.max_idle_conns", 100)
	viper.SetDefault("network.idle_conn_timeout", 90*time.Second)
	viper.SetDefault("network.disable_keep_alive", false)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.verbose", false)
}

// TileURL builds a tile URL for the configured server
func (c *Config) TileURL(z, x, y int) string {
	if c.Server.BaseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/%d/%d/%d/tile.geojson", c.Server.BaseURL, z, x, y)
}

// DetermineSourceType automatically determines the source type based on configuration
func (c *Config) DetermineSourceType() internal.SourceType {
	if !c.Source.AutoDetect {
		if c.Source.Type == "store" {
			return internal.SourceTypeStore
		}
		return internal.SourceTypeHTTP
	}

	if c.Store.Path != "" && c.Server.BaseURL == "" {
		return internal.SourceTypeStore
	}
	return internal.SourceTypeHTTP
}
