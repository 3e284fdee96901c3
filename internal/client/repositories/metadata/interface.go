package metadata

import (
	"context"
)

// Well-known keys written by the vault service.
const (
	KeyLastExportAt = "last_export_at"
	KeyLastImportAt = "last_import_at"
)

// Repository is a small key/value table for bookkeeping values that are not
// part of the gallery itself.
type Repository interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	List(ctx context.Context) (map[string][]byte, error)
}
