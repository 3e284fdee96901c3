package localdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/client/repositories/folders"
	"github.com/dmitrijs2005/mediavault/internal/client/repositories/items"
	"github.com/dmitrijs2005/mediavault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mediavault/internal/common"
	"github.com/dmitrijs2005/mediavault/internal/dbx"
)

// SQLiteStore implements Store on a migrated SQLite database.
type SQLiteStore struct {
	db       *sql.DB
	items    *items.SQLiteRepository
	folders  *folders.SQLiteRepository
	metadata *metadata.SQLiteRepository
}

// Open initializes the database at path and wraps it in a SQLiteStore.
// Every failure is tagged with common.ErrStorageUnavailable.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := InitDatabase(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewSQLiteStore(db), nil
}

// NewSQLiteStore wraps an already migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db:       db,
		items:    items.NewSQLiteRepository(db),
		folders:  folders.NewSQLiteRepository(db),
		metadata: metadata.NewSQLiteRepository(db),
	}
}

func (s *SQLiteStore) Items() items.Repository       { return s.items }
func (s *SQLiteStore) Folders() folders.Repository   { return s.folders }
func (s *SQLiteStore) Metadata() metadata.Repository { return s.metadata }
func (s *SQLiteStore) Durable() bool                 { return true }

func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int64, error) {
	return SchemaVersion(ctx, s.db)
}

func (s *SQLiteStore) MoveItem(ctx context.Context, itemID, folderID string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if folderID != "" {
			ok, err := folders.NewSQLiteRepository(tx).Exists(ctx, folderID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("folder %s: %w", folderID, common.ErrNotFound)
			}
		}
		return items.NewSQLiteRepository(tx).SetFolder(ctx, itemID, folderID)
	})
	return storageErr("move item", err)
}

func (s *SQLiteStore) DeleteFolder(ctx context.Context, folderID string) (int64, error) {
	var moved int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := items.NewSQLiteRepository(tx).ClearFolder(ctx, folderID)
		if err != nil {
			return err
		}
		if err := folders.NewSQLiteRepository(tx).Delete(ctx, folderID); err != nil {
			return err
		}
		moved = n
		return nil
	})
	if err != nil {
		return 0, storageErr("delete folder", err)
	}
	return moved, nil
}

func (s *SQLiteStore) ReplaceAll(ctx context.Context, its []archive.Item, fs []archive.Folder) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		ir := items.NewSQLiteRepository(tx)
		fr := folders.NewSQLiteRepository(tx)

		if err := ir.DeleteAll(ctx); err != nil {
			return err
		}
		if err := fr.DeleteAll(ctx); err != nil {
			return err
		}
		for _, f := range fs {
			if err := fr.Put(ctx, f); err != nil {
				return err
			}
		}
		for _, it := range its {
			if err := ir.Put(ctx, it); err != nil {
				return err
			}
		}
		return nil
	})
	return storageErr("replace archive", err)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
