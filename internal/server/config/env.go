package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names recognized by parseEnv.
const (
	envAddr          = "DOCLIB_ADDRESS"
	envDSN           = "DOCLIB_DATABASE_DSN"
	envSecret        = "DOCLIB_SECRET_KEY"
	envTokenValidity = "DOCLIB_ACCESS_TOKEN_VALIDITY"
	envCORSOrigins   = "DOCLIB_CORS_ORIGINS"
)

// parseEnv overlays config values from the process environment. An optional
// .env file (path taken from ENV_FILE, defaulting to ".env") is loaded first;
// a missing file is not an error. Duration values use time.ParseDuration
// syntax; invalid durations are ignored in favor of the current value.
func parseEnv(config *Config) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)

	if v, ok := os.LookupEnv(envAddr); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv(envDSN); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(envSecret); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv(envTokenValidity); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv(envCORSOrigins); ok {
		config.CORSAllowedOrigins = splitOrigins(v)
	}
}

func splitOrigins(v string) []string {
	parts := strings.Split(v, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			origins = append(origins, s)
		}
	}
	return origins
}
