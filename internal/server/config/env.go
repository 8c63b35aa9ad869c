package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory, if present, is loaded first; already-set variables
// win over .env contents.
//
// Recognized variables:
//
//	WAYFARER_HTTP_ADDR    HTTP bind address
//	WAYFARER_DATABASE_DSN PostgreSQL DSN
//	WAYFARER_SECRET_KEY   JWT HMAC secret
//	WAYFARER_ACCESS_TTL   access token validity (Go duration, e.g. "15m")
//	WAYFARER_REFRESH_TTL  refresh token validity (Go duration, e.g. "168h")
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("WAYFARER_HTTP_ADDR"); v != "" {
		config.EndpointAddrHTTP = v
	}
	if v := os.Getenv("WAYFARER_DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("WAYFARER_SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("WAYFARER_ACCESS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v := os.Getenv("WAYFARER_REFRESH_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.RefreshTokenValidityDuration = d
		}
	}
}
