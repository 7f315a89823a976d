// internal/config/validation.go - Configuration validation
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate validates the configuration structure and values
func Validate(config *Config) error {
	if err := validateServer(&config.Server); err != nil {
		return fmt.Errorf("server configuration invalid: %w", err)
	}

	if err := validateLoader(&config.Loader); err != nil {
		return fmt.Errorf("loader configuration invalid: %w", err)
	}

	if err := validateCache(&config.Cache); err != nil {
		return fmt.Errorf("cache configuration invalid: %w", err)
	}

	if err := validateNetwork(&config.Network); err != nil {
		return fmt.Errorf("network configuration invalid: %w", err)
	}

	if err := validateLogging(&config.Logging); err != nil {
		return fmt.Errorf("logging configuration invalid: %w", err)
	}

	return nil
}

// validateServer validates tile server configuration parameters
func validateServer(config *ServerConfig) error {
	if config.BaseURL != "" {
		if _, err := url.Parse(config.BaseURL); err != nil {
			return fmt.Errorf("invalid base_url: %w", err)
		}
	}

	if config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	return nil
}

// validateLoader validates viewport loader configuration parameters
func validateLoader(config *LoaderConfig) error {
	if config.MinZoom < 0 || config.MaxZoom > 22 {
		return fmt.Errorf("zoom levels must be between 0 and 22")
	}

	if config.MinZoom > config.MaxZoom {
		return fmt.Errorf("min_zoom (%d) cannot be greater than max_zoom (%d)", config.MinZoom, config.MaxZoom)
	}

	return nil
}

// validateCache validates tile cache configuration parameters
func validateCache(config *CacheConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.Expiration < 0 {
		return fmt.Errorf("expiration must be non-negative")
	}

	if config.Cleanup < 0 {
		return fmt.Errorf("cleanup must be non-negative")
	}

	return nil
}

// validateNetwork validates network configuration parameters
func validateNetwork(config *NetworkConfig) error {
	if config.ProxyURL != "" {
		if _, err := url.Parse(config.ProxyURL); err != nil {
			return fmt.Errorf("invalid proxy_url: %w", err)
		}
	}

	if config.MaxIdleConns < 0 {
		return fmt.Errorf("max_idle_conns must be non-negative")
	}

	if config.UserAgent == "" {
		return fmt.Errorf("user_agent cannot be empty")
	}

	if config.IdleConnTimeout < 0 {
		return fmt.Errorf("idle_conn_timeout must be non-negative")
	}

	return nil
}

// validateLogging validates logging configuration parameters
func validateLogging(config *LoggingConfig) error {
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	if !contains(validLevels, config.Level) {
		return fmt.Errorf("invalid log level: %s, must be one of %v", config.Level, validLevels)
	}

	validFormats := []string{"text", "json"}
	if !contains(validFormats, config.Format) {
		return fmt.Errorf("invalid log format: %s, must be one of %v", config.Format, validFormats)
	}

	return nil
}

// contains checks if a string slice contains a specific string (case-insensitive)
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
