// Package config handles configuration for the server component,
// including defaults, .env and environment variables, JSON overlay, and
// command-line flags.
package config

import "time"

// Config holds runtime settings for the GophFeed server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects in-memory storage.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - TokenValidityDuration: lifetime of issued tokens.
//   - AllowedOrigins: origins accepted by CORS.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddr          string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	AllowedOrigins        []string
	LogLevel              string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":5000"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 7 * 24 * time.Hour
	c.AllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then the environment
// (with .env), then an optional JSON file and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
