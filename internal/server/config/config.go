// Package config handles configuration for the feed server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the public feed server.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx); empty keeps the feed in memory.
//   - SecretKey: HMAC secret for publisher JWTs (HS256). Do not use test defaults in prod.
//   - TokenValidity: lifetime of tokens minted by the server.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
//   - PublicBaseURL: base of the durable URLs handed out for uploads; empty
//     means "<S3BaseEndpoint>/<S3Bucket>".
type Config struct {
	EndpointAddr   string
	DatabaseDSN    string
	SecretKey      string
	TokenValidity  time.Duration
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	PublicBaseURL  string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidity = 24 * time.Hour
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "mediavault"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.PublicBaseURL = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
