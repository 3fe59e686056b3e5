package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything externally configured. The client only needs
// the API base address and a database path; the rest drives the
// development server.
type Config struct {
	// ServerURL is the portal API base address.
	ServerURL string
	// DBPath is the client's local BoltDB file.
	DBPath string
	// PollInterval is the notification polling cadence.
	PollInterval time.Duration
	// Debug lowers the log level to debug.
	Debug bool

	// ListenAddr is the development server's bind address.
	ListenAddr string
	// ServerDBPath is the development server's SQLite file.
	ServerDBPath string
	// JWTSecret signs the development server's access tokens.
	JWTSecret string
	// AccessTokenTTL is the access token lifetime.
	AccessTokenTTL time.Duration
	// RefreshTokenTTL is the refresh token lifetime.
	RefreshTokenTTL time.Duration
}

// Load reads configuration from the environment with the SHULEBOOK
// prefix, after loading a .env file if one exists next to the binary.
func Load() (*Config, error) {
	// Load .env if it exists (ignore if it does not)
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("SHULEBOOK")
	v.AutomaticEnv()

	v.SetDefault("server_url", "http://localhost:8000")
	v.SetDefault("db", "shulebook-client.db")
	v.SetDefault("poll_interval", 60*time.Second)
	v.SetDefault("debug", false)
	v.SetDefault("listen_addr", ":8000")
	v.SetDefault("server_db", "shulebook-server.db")
	v.SetDefault("jwt_secret", "dev-only-secret-change-me")
	v.SetDefault("access_token_ttl", 15*time.Minute)
	v.SetDefault("refresh_token_ttl", 7*24*time.Hour)

	cfg := &Config{
		ServerURL:       v.GetString("server_url"),
		DBPath:          v.GetString("db"),
		PollInterval:    v.GetDuration("poll_interval"),
		Debug:           v.GetBool("debug"),
		ListenAddr:      v.GetString("listen_addr"),
		ServerDBPath:    v.GetString("server_db"),
		JWTSecret:       v.GetString("jwt_secret"),
		AccessTokenTTL:  v.GetDuration("access_token_ttl"),
		RefreshTokenTTL: v.GetDuration("refresh_token_ttl"),
	}

	return cfg, nil
}
