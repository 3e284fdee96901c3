package localdb

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/client/repositories/folders"
	"github.com/dmitrijs2005/mediavault/internal/client/repositories/items"
	"github.com/dmitrijs2005/mediavault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mediavault/internal/common"
	"github.com/dmitrijs2005/mediavault/internal/dbx"
)

// Store is the durable owner of items and folders.
type Store interface {
	Items() items.Repository
	Folders() folders.Repository
	Metadata() metadata.Repository

	// MoveItem reassigns an item to folderID, or to the root when folderID
	// is "". Both the item and a non-empty folder must exist.
	MoveItem(ctx context.Context, itemID, folderID string) error

	// DeleteFolder removes the folder and clears folder_id on every item
	// that referenced it. Items are never removed. Returns the number of
	// items moved to the root; deleting a missing folder returns 0, nil.
	DeleteFolder(ctx context.Context, folderID string) (int64, error)

	// ReplaceAll empties both collections and writes the given records.
	// Either all of it happens or none of it does.
	ReplaceAll(ctx context.Context, its []archive.Item, fs []archive.Folder) error

	// Durable reports whether writes survive a restart.
	Durable() bool

	// SchemaVersion is the applied migration version, 0 for stores
	// without a schema.
	SchemaVersion(ctx context.Context) (int64, error)

	Close() error
}

func storageErr(op string, err error) error {
	if err == nil || errors.Is(err, common.ErrStorageUnavailable) || errors.Is(err, common.ErrNotFound) {
		return err
	}
	return dbx.StorageError(op, err)
}
