package items

import (
	"context"

	"github.com/dmitrijs2005/mediavault/internal/archive"
)

// Repository stores gallery items keyed by id.
type Repository interface {
	// Put inserts the item or fully overwrites the record with the same id.
	Put(ctx context.Context, item archive.Item) error

	// GetAll returns every stored item in no particular order.
	GetAll(ctx context.Context) ([]archive.Item, error)

	// GetByID returns common.ErrNotFound when no record has the id.
	GetByID(ctx context.Context, id string) (archive.Item, error)

	// Delete removes the record. Deleting a missing id is a no-op.
	Delete(ctx context.Context, id string) error

	// SetFolder reassigns one item; folderID "" moves it to the root.
	// Returns common.ErrNotFound when no record has the id.
	SetFolder(ctx context.Context, id, folderID string) error

	// ClearFolder moves every item of folderID to the root and reports how
	// many were moved.
	ClearFolder(ctx context.Context, folderID string) (int64, error)

	// DeleteAll empties the collection.
	DeleteAll(ctx context.Context) error
}
