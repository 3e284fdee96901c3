// Package published stores the items announced to the public feed.
package published

import (
	"context"

	"github.com/dmitrijs2005/mediavault/internal/archive"
)

// DefaultLimit caps List when the caller passes a non-positive limit.
const DefaultLimit = 100

// Repository persists published item metadata. Put upserts by item id.
// List returns items newest first.
type Repository interface {
	Put(ctx context.Context, it archive.Item, publisher string) error
	List(ctx context.Context, limit int) ([]archive.Item, error)
}
