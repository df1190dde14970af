package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig   `mapstructure:"server"`
	Database      DatabaseConfig `mapstructure:"database"`
	Logging       LoggingConfig  `mapstructure:"logging"`
	Auth          AuthConfig     `mapstructure:"auth"`
	Spotify       SpotifyConfig  `mapstructure:"spotify"`
	Search        SearchConfig   `mapstructure:"search"`
	DeveloperMode bool           `mapstructure:"developer_mode"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret          string   `mapstructure:"jwt_secret"`
	SessionHours       int      `mapstructure:"session_hours"`
	PasskeyRPID        string   `mapstructure:"passkey_rp_id"`
	PasskeyOrigins     []string `mapstructure:"passkey_origins"`
	PasskeyDisplayName string   `mapstructure:"passkey_display_name"`
}

// SpotifyConfig holds catalog provider configuration.
type SpotifyConfig struct {
	ClientID       string `mapstructure:"client_id"`
	ClientSecret   string `mapstructure:"client_secret"`
	AuthURL        string `mapstructure:"auth_url"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// SearchConfig holds quick-find configuration.
type SearchConfig struct {
	PoolSize        int `mapstructure:"pool_size"`
	CacheTTLMinutes int `mapstructure:"cache_ttl_minutes"`
	DefaultLimit    int `mapstructure:"default_limit"`
	MaxLimit        int `mapstructure:"max_limit"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8484,
		},
		Database: DatabaseConfig{
			Path: "./data/cadenza.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Auth: AuthConfig{
			JWTSecret:          "", // Will be generated if empty
			SessionHours:       24,
			PasskeyRPID:        "localhost",
			PasskeyOrigins:     []string{"http://localhost:8484"},
			PasskeyDisplayName: "Cadenza",
		},
		Spotify: SpotifyConfig{
			ClientID:       EmbeddedSpotifyClientID,
			ClientSecret:   EmbeddedSpotifyClientSecret,
			AuthURL:        "https://accounts.spotify.com/api/token",
			BaseURL:        "https://api.spotify.com/v1",
			TimeoutSeconds: 15,
		},
		Search: SearchConfig{
			PoolSize:        50,
			CacheTTLMinutes: 10,
			DefaultLimit:    10,
			MaxLimit:        50,
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.cadenza")
	}

	// Environment variable settings
	v.SetEnvPrefix("CADENZA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults + env vars
	}

	// Unmarshal into struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8484)

	// Database defaults
	v.SetDefault("database.path", "./data/cadenza.db")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.session_hours", 24)
	v.SetDefault("auth.passkey_rp_id", "localhost")
	v.SetDefault("auth.passkey_origins", []string{"http://localhost:8484"})
	v.SetDefault("auth.passkey_display_name", "Cadenza")

	// Spotify defaults (credentials come from env, config, or build flags)
	v.SetDefault("spotify.client_id", EmbeddedSpotifyClientID)
	v.SetDefault("spotify.client_secret", EmbeddedSpotifyClientSecret)
	v.SetDefault("spotify.auth_url", "https://accounts.spotify.com/api/token")
	v.SetDefault("spotify.base_url", "https://api.spotify.com/v1")
	v.SetDefault("spotify.timeout_seconds", 15)

	// Search defaults
	v.SetDefault("search.pool_size", 50)
	v.SetDefault("search.cache_ttl_minutes", 10)
	v.SetDefault("search.default_limit", 10)
	v.SetDefault("search.max_limit", 50)

	v.SetDefault("developer_mode", false)
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
