/*
Package configs loads and validates the application's configuration.

All settings come from environment variables: the running environment, HTTP
port, CORS origins, the share-token signing secret, the canonical base URL
embedded in share links, upstream API endpoints, and the optional revocation
(Redis) and audit (Postgres) stores.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig contains every configuration parameter the application needs.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string

	// ShareSecret signs share capability tokens and session tokens. It is
	// injected into the token codec at startup; outside development a missing
	// secret is a startup failure, never a silent default.
	ShareSecret string

	// BaseURL is the canonical origin used for share links when the request
	// carries no usable origin of its own.
	BaseURL string

	// Upstream API Settings
	UpstreamURL      string
	UpstreamOAuthURL string
	UserAgent        string

	// RedisAddr enables the share-token revocation store when non-empty.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// DatabaseDSN enables the issuance audit log when non-empty.
	DatabaseDSN string
}

// developmentSecret is the insecure fallback used only when ENVIRONMENT is
// "development" and SHARE_SECRET is unset.
const developmentSecret = "insecure_development_share_secret_change_me"

// LoadConfig reads and validates the configuration from environment variables.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	shareSecret := os.Getenv("SHARE_SECRET")
	if cfg.Environment == "development" {
		if shareSecret == "" {
			shareSecret = developmentSecret
		}
	} else {
		if shareSecret == "" {
			return nil, fmt.Errorf("SHARE_SECRET environment variable is required in %s environment for security", cfg.Environment)
		}
		if shareSecret == developmentSecret {
			return nil, fmt.Errorf("SHARE_SECRET must not use the development fallback value in %s environment", cfg.Environment)
		}
	}
	cfg.ShareSecret = shareSecret

	// BaseURL is optional. With no value, share links fall back to the
	// request's Origin header and finally to the local development origin.
	cfg.BaseURL = os.Getenv("BASE_URL")

	// --- Upstream API Settings ---
	cfg.UpstreamURL = os.Getenv("UPSTREAM_URL")
	if cfg.UpstreamURL == "" {
		cfg.UpstreamURL = "https://www.reddit.com"
	}

	cfg.UpstreamOAuthURL = os.Getenv("UPSTREAM_OAUTH_URL")
	if cfg.UpstreamOAuthURL == "" {
		cfg.UpstreamOAuthURL = "https://oauth.reddit.com"
	}

	cfg.UserAgent = os.Getenv("USER_AGENT")
	if cfg.UserAgent == "" {
		cfg.UserAgent = "web:karmashare:v1.0.0"
	}

	// --- Optional Stores ---
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	redisDBStr := os.Getenv("REDIS_DB")
	if redisDBStr != "" {
		redisDB, err := strconv.Atoi(redisDBStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB environment variable: %w", err)
		}
		cfg.RedisDB = redisDB
	}

	cfg.DatabaseDSN = os.Getenv("DATABASE_URL")

	return cfg, nil
}
