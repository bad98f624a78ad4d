// internal/config/config.go - Configuration management
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Lookup  LookupConfig  `mapstructure:"lookup"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Output  OutputConfig  `mapstructure:"output"`
	Render  RenderConfig  `mapstructure:"render"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig contains tile server configuration
type ServerConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxTiles  int           `mapstructure:"max_tiles"`
}

// LookupConfig contains feature lookup service configuration
type LookupConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// CacheConfig contains on-disk tile cache configuration
type CacheConfig struct {
	Directory string `mapstructure:"directory"`
}

// OutputConfig contains figure output configuration
type OutputConfig struct {
	Directory string `mapstructure:"directory"`
}

// RenderConfig contains figure rendering configuration
type RenderConfig struct {
	AspectLatitude float64 `mapstructure:"aspect_latitude"`
	MarkerSize     int     `mapstructure:"marker_size"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Verbose  bool   `mapstructure:"verbose"`
	Progress bool   `mapstructure:"progress"`
}

// Load loads configuration from various sources
func Load() (*Config, error) {
	// Set default values
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
	// Tile server defaults
	viper.SetDefault("server.base_url", "http://a.tile.openstreetmap.org")
	viper.SetDefault("server.user_agent", "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:105.0) Gecko/20100101 Firefox/105.0")
	viper.SetDefault("server.timeout", 10*time.Second)
	viper.SetDefault("server.max_tiles", 500)

	// Lookup service defaults
	viper.SetDefault("lookup.base_url", "https://nominatim.openstreetmap.org")
	viper.SetDefault("lookup.user_agent", "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:105.0) Gecko/20100101 Firefox/105.0")
	viper.SetDefault("lookup.timeout", 10*time.Second)

	// Cache defaults
	viper.SetDefault("cache.directory", "tiles")

	// Output defaults
	viper.SetDefault("output.directory", "figs")

	// Render defaults
	viper.SetDefault("render.aspect_latitude", 60.0)
	viper.SetDefault("render.marker_size", 2)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.verbose", false)
	viper.SetDefault("logging.progress", true)
}

// InitLogger builds the global zap logger from the logging configuration.
func InitLogger(cfg LoggingConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	return nil
}
