package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/mediavault/internal/flagx"
	"github.com/dmitrijs2005/mediavault/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from a zero value.
type JSONConfig struct {
	DatabasePath   *string         `json:"database_path"`
	FeedEndpoint   *string         `json:"feed_endpoint"`
	FeedTimeout    *timex.Duration `json:"feed_timeout"`
	FeedRetries    *int            `json:"feed_retries"`
	PublishEnabled *bool           `json:"publish_enabled"`
	PublishToken   *string         `json:"publish_token"`
	LogLevel       *string         `json:"log_level"`
}

// parseJSON overlays cfg with the JSON file named by -c/-config, if any.
// It panics on read or unmarshal errors.
func parseJSON(cfg *Config) {
	path := flagx.JSONConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}
	jc.apply(cfg)
}

func (jc JSONConfig) apply(cfg *Config) {
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.FeedEndpoint != nil {
		cfg.FeedEndpoint = *jc.FeedEndpoint
	}
	if jc.FeedTimeout != nil {
		cfg.FeedTimeout = jc.FeedTimeout.Duration
	}
	if jc.FeedRetries != nil {
		cfg.FeedRetries = *jc.FeedRetries
	}
	if jc.PublishEnabled != nil {
		cfg.PublishEnabled = *jc.PublishEnabled
	}
	if jc.PublishToken != nil {
		cfg.PublishToken = *jc.PublishToken
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
