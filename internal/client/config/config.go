package config

import "time"

// Config holds runtime settings for the archive shell.
//
// Fields:
//   - DatabasePath: SQLite file of the Local Store.
//   - FeedEndpoint: base URL of the public feed server; empty selects the
//     built-in simulated feed.
//   - FeedTimeout / FeedRetries: per-request timeout and retry count of the
//     feed client.
//   - PublishEnabled / PublishToken: announce new durable items to the feed
//     using the given bearer token.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	DatabasePath   string
	FeedEndpoint   string
	FeedTimeout    time.Duration
	FeedRetries    int
	PublishEnabled bool
	PublishToken   string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "vault.db"
	c.FeedEndpoint = ""
	c.FeedTimeout = 10 * time.Second
	c.FeedRetries = 2
	c.PublishEnabled = false
	c.PublishToken = ""
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
