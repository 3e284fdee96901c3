// Package vault is the single owner of the archive's state.
//
// Service holds the Local Store handle, the remote feed adapter, the session
// reference registry and the in-memory cache the shell renders from. Every
// mutation goes through it: the cache is updated first, the store write
// follows, and a failed write rolls the cache back before the error is
// returned. When the store itself fails, the service switches to an
// in-memory store for the rest of the session and records a notice instead
// of stopping.
//
// Reads (Snapshot, Items, Folders) never block on I/O. Subscribe delivers a
// fresh Snapshot after every change.
package vault
