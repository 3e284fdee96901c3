package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/mediavault/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. os.Args is
// filtered to the flags handled here so other layers can share the line.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		[]string{"-d", "-f", "-t", "-r", "-k", "-l"}, "-p")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	fs.StringVar(&cfg.FeedEndpoint, "f", cfg.FeedEndpoint, "public feed endpoint (empty: simulated)")
	timeout := fs.Int("t", int(cfg.FeedTimeout.Seconds()), "feed request timeout (in seconds)")
	fs.IntVar(&cfg.FeedRetries, "r", cfg.FeedRetries, "feed retries after a transient failure")
	fs.BoolVar(&cfg.PublishEnabled, "p", cfg.PublishEnabled, "publish new items to the public feed")
	fs.StringVar(&cfg.PublishToken, "k", cfg.PublishToken, "bearer token for publishing")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.FeedTimeout = time.Duration(*timeout) * time.Second
}
