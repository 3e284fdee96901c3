// Package folders persists user-created folders in the local store.
package folders

import (
	"context"

	"github.com/dmitrijs2005/mediavault/internal/archive"
)

type Repository interface {
	// Put inserts or overwrites the folder with the same id.
	Put(ctx context.Context, f archive.Folder) error
	GetAll(ctx context.Context) ([]archive.Folder, error)
	// Exists reports whether a folder with the id is stored.
	Exists(ctx context.Context, id string) (bool, error)
	// Delete removes the folder; a missing id is a no-op.
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}
