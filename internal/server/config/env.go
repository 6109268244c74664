package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// parseEnv loads .env from the working directory, when present, and then
// overlays Config with the recognized environment variables:
//
//	SERVER_ADDRESS   bind address
//	DATABASE_DSN     PostgreSQL DSN
//	JWT_SECRET       token signing secret
//	CORS_ORIGINS     comma separated list of allowed origins
//	LOG_LEVEL        log level
//
// Variables already set in the process environment win over .env.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("SERVER_ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok && v != "" {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		config.AllowedOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		config.LogLevel = v
	}
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
