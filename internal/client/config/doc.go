// Package config loads runtime configuration for the GophFeed CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend, e.g. http://127.0.0.1:5000
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-d string   path to the local session database
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s" or
// integer nanoseconds. Keys that are absent keep their previous value:
//
//	{
//	  "server_url": "http://127.0.0.1:5000",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "database_path": "gophfeed.db",
//	  "log_level": "info"
//	}
package config
