package folders

import (
	"context"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, f archive.Folder) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO folders (id, name, type, timestamp) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			timestamp = excluded.timestamp
	`, f.ID, f.Name, string(f.Type), f.Timestamp)
	if err != nil {
		return dbx.StorageError("upsert folder", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]archive.Folder, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, type, timestamp FROM folders ORDER BY timestamp, id`)
	if err != nil {
		return nil, dbx.StorageError("select folders", err)
	}
	defer rows.Close()

	var result []archive.Folder
	for rows.Next() {
		var f archive.Folder
		var typ string
		if err := rows.Scan(&f.ID, &f.Name, &typ, &f.Timestamp); err != nil {
			return nil, dbx.StorageError("scan folder", err)
		}
		f.Type = archive.FolderType(typ)
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.StorageError("iterate folders", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM folders WHERE id = ?`, id).Scan(&n); err != nil {
		return false, dbx.StorageError("count folder", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id); err != nil {
		return dbx.StorageError("delete folder", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM folders`); err != nil {
		return dbx.StorageError("delete folders", err)
	}
	return nil
}
