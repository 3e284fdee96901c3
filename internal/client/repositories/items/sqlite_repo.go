package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/common"
	"github.com/dmitrijs2005/mediavault/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `id, title, category, type, image, content_src, file_data, mime_hint, folder_id, timestamp, is_external`

// Put upserts the whole record; every column is replaced on conflict.
func (r *SQLiteRepository) Put(ctx context.Context, it archive.Item) error {
	query := `INSERT INTO projects (` + selectColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				category = excluded.category,
				type = excluded.type,
				image = excluded.image,
				content_src = excluded.content_src,
				file_data = excluded.file_data,
				mime_hint = excluded.mime_hint,
				folder_id = excluded.folder_id,
				timestamp = excluded.timestamp,
				is_external = excluded.is_external
	`
	var contentSrc, mimeHint, folderID sql.NullString
	var fileData []byte

	switch c := it.Content.(type) {
	case archive.RemoteContent:
		contentSrc = sql.NullString{String: c.URL, Valid: c.URL != ""}
	case archive.LocalBinary:
		fileData = c.Data
		mimeHint = sql.NullString{String: c.MimeHint, Valid: c.MimeHint != ""}
	}
	folderID = sql.NullString{String: it.FolderID, Valid: it.FolderID != ""}

	image := it.Image
	if archive.IsSessionRef(image) {
		image = ""
	}

	_, err := r.db.ExecContext(ctx, query,
		it.ID, it.Title, it.Category, string(it.Type), image,
		contentSrc, fileData, mimeHint, folderID, it.Timestamp, it.IsExternal)
	if err != nil {
		return dbx.StorageError("upsert item", err)
	}
	return nil
}

// GetAll lists all items including their payloads.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]archive.Item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM projects`)
	if err != nil {
		return nil, dbx.StorageError("select items", err)
	}
	defer rows.Close()

	var result []archive.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, dbx.StorageError("scan item", err)
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.StorageError("iterate items", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (archive.Item, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM projects WHERE id = ?`, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return archive.Item{}, fmt.Errorf("item %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return archive.Item{}, dbx.StorageError("select item", err)
	}
	return it, nil
}

// Delete removes the row; zero rows affected is not an error.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return dbx.StorageError("delete item", err)
	}
	return nil
}

func (r *SQLiteRepository) SetFolder(ctx context.Context, id, folderID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET folder_id = ? WHERE id = ?`,
		sql.NullString{String: folderID, Valid: folderID != ""}, id)
	if err != nil {
		return dbx.StorageError("move item", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.StorageError("move item", err)
	}
	if n == 0 {
		return fmt.Errorf("item %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) ClearFolder(ctx context.Context, folderID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET folder_id = NULL WHERE folder_id = ?`, folderID)
	if err != nil {
		return 0, dbx.StorageError("clear folder", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dbx.StorageError("clear folder", err)
	}
	return n, nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return dbx.StorageError("delete items", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (archive.Item, error) {
	var (
		it                             archive.Item
		typ                            string
		contentSrc, mimeHint, folderID sql.NullString
		fileData                       []byte
	)
	err := s.Scan(&it.ID, &it.Title, &it.Category, &typ, &it.Image,
		&contentSrc, &fileData, &mimeHint, &folderID, &it.Timestamp, &it.IsExternal)
	if err != nil {
		return archive.Item{}, err
	}
	it.Type = archive.ItemType(typ)
	it.FolderID = folderID.String

	switch {
	case len(fileData) > 0:
		it.Content = archive.LocalBinary{Data: fileData, MimeHint: mimeHint.String}
	case contentSrc.Valid && contentSrc.String != "":
		it.Content = archive.RemoteContent{URL: contentSrc.String}
	}
	return it, nil
}
