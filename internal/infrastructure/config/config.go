package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration. It is loaded once at startup
// and treated as read-only afterwards.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Icons     IconConfig
	Gallery   GalleryConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// StorageConfig holds the storage engine configuration.
type StorageConfig struct {
	BasePath       string `envconfig:"STORAGE_PATH" default:"storage"`
	MaxUploadBytes int64  `envconfig:"STORAGE_MAX_UPLOAD_BYTES" default:"1610612736"`
}

// IconConfig holds the display glyph configuration. Extensions is parsed
// from the environment as "ext:glyph,ext:glyph"; unset glyphs fall back to
// the engine defaults.
type IconConfig struct {
	Default    string            `envconfig:"ICON_DEFAULT"`
	Folder     string            `envconfig:"ICON_FOLDER"`
	URL        string            `envconfig:"ICON_URL"`
	Extensions map[string]string `envconfig:"ICON_EXTENSIONS"`
}

// GalleryConfig holds the gallery endpoints configuration.
type GalleryConfig struct {
	Resource string `envconfig:"GALLERY_RESOURCE" default:"public"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Storage: StorageConfig{
			BasePath:       "storage",
			MaxUploadBytes: 1_610_612_736,
		},
		Gallery: GalleryConfig{
			Resource: "public",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
	}
}
