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

	if err := validateLookup(&config.Lookup); err != nil {
		return fmt.Errorf("lookup configuration invalid: %w", err)
	}

	if err := validateCache(&config.Cache); err != nil {
		return fmt.Errorf("cache configuration invalid: %w", err)
	}

	if err := validateOutput(&config.Output); err != nil {
		return fmt.Errorf("output configuration invalid: %w", err)
	}

	if err := validateRender(&config.Render); err != nil {
		return fmt.Errorf("render configuration invalid: %w", err)
	}

	if err := validateLogging(&config.Logging); err != nil {
		return fmt.Errorf("logging configuration invalid: %w", err)
	}

	return nil
}

// validateServer validates tile server configuration parameters
func validateServer(config *ServerConfig) error {
	if config.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	if _, err := url.Parse(config.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}

	if config.UserAgent == "" {
		return fmt.Errorf("user_agent cannot be empty")
	}

	if config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if config.MaxTiles <= 0 {
		return fmt.Errorf("max_tiles must be positive")
	}

	return nil
}

// validateLookup validates lookup service configuration parameters
func validateLookup(config *LookupConfig) error {
	if config.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	if _, err := url.Parse(config.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}

	if config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	return nil
}

// validateCache validates cache configuration parameters
func validateCache(config *CacheConfig) error {
	if config.Directory == "" {
		return fmt.Errorf("directory is required")
	}

	return nil
}

// validateOutput validates output configuration parameters
func validateOutput(config *OutputConfig) error {
	if config.Directory == "" {
		return fmt.Errorf("directory is required")
	}

	return nil
}

// validateRender validates render configuration parameters
func validateRender(config *RenderConfig) error {
	if config.AspectLatitude < 0 || config.AspectLatitude >= 90 {
		return fmt.Errorf("aspect_latitude must be in [0, 90), got %g", config.AspectLatitude)
	}

	if config.MarkerSize <= 0 {
		return fmt.Errorf("marker_size must be positive")
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
