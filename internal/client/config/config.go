package config

import "time"

// Config holds runtime settings for the GophFeed CLI.
//
// Fields:
//   - ServerURL: base URL of the GophFeed REST backend.
//   - RequestTimeout: upper bound for a single API request.
//   - OnlineCheckInterval: how often the client checks server reachability.
//   - DatabasePath: SQLite file keeping the persisted session.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerURL           string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	DatabasePath        string
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.DatabasePath = "gophfeed.db"
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
