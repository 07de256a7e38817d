package web

import "time"

// Config represents the web server configuration
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Features FeatureConfig
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	// APIKey guards the correction and lookup endpoints when set
	APIKey string
}

// FeatureConfig contains feature toggles
type FeatureConfig struct {
	UIEnabled      bool
	MetricsEnabled bool
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Features: FeatureConfig{
			UIEnabled:      true,
			MetricsEnabled: true,
		},
	}
}
