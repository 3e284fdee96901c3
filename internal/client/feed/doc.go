// Package feed is the archive's Remote Feed Adapter.
//
// Adapter is the capability the vault consumes: fetch the public collection,
// announce an item's metadata, and turn a raw payload into a durable URL.
// Client implements it against the feed server's HTTP API with a per-request
// timeout and exponential-backoff retries; Simulated serves a fixed set of
// sample assets after an artificial delay and is used when no endpoint is
// configured.
package feed
