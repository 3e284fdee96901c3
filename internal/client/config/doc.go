// Package config loads runtime configuration for the archive shell.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string   path of the local SQLite database
//	-f string   public feed endpoint (empty: simulated feed)
//	-t int      feed request timeout (seconds)
//	-r int      feed retries after a transient failure
//	-p          publish new items to the public feed
//	-k string   bearer token used for publishing
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "3s" or integer
// nanoseconds. Keys that are absent keep their previous value:
//
//	{
//	  "database_path": "vault.db",
//	  "feed_endpoint": "http://127.0.0.1:8080",
//	  "feed_timeout": "10s",
//	  "feed_retries": 2,
//	  "publish_enabled": true,
//	  "publish_token": "...",
//	  "log_level": "info"
//	}
package config
