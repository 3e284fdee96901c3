package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/mediavault/internal/client/cli"
	"github.com/dmitrijs2005/mediavault/internal/client/config"
	"github.com/dmitrijs2005/mediavault/internal/client/feed"
	"github.com/dmitrijs2005/mediavault/internal/client/vault"
	"github.com/dmitrijs2005/mediavault/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel, "text")

	// On failure OpenStore logs and hands back an in-memory store.
	store, _ := vault.OpenStore(ctx, cfg.DatabasePath, logger)

	var (
		adapter feed.Adapter
		err     error
	)
	if cfg.FeedEndpoint == "" {
		adapter = feed.NewSimulated(feed.DefaultLatency)
	} else {
		adapter, err = feed.NewClient(feed.Options{
			Endpoint: cfg.FeedEndpoint,
			Timeout:  cfg.FeedTimeout,
			Retries:  cfg.FeedRetries,
			Token:    cfg.PublishToken,
		})
		if err != nil {
			log.Fatalf("%v", err)
		}
	}

	svc := vault.New(vault.Options{
		Store:        store,
		Feed:         adapter,
		Logger:       logger,
		FetchTimeout: cfg.FeedTimeout,
		Publish:      cfg.PublishEnabled,
	})
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error(ctx, "close archive", "err", err)
		}
	}()

	cli.NewApp(svc, logger, os.Stdin, os.Stdout).Run(ctx)
}
