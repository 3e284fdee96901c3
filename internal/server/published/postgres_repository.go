package published

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Put(ctx context.Context, it archive.Item, publisher string) error {
	query :=
		`INSERT INTO published_items (id, title, category, type, image, content_src, timestamp, is_external, publisher)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id)
		DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			type = EXCLUDED.type,
			image = EXCLUDED.image,
			content_src = EXCLUDED.content_src,
			timestamp = EXCLUDED.timestamp,
			is_external = EXCLUDED.is_external,
			publisher = EXCLUDED.publisher,
			published_at = now();
		`

	_, err := r.db.ExecContext(ctx, query,
		it.ID, it.Title, it.Category, string(it.Type), it.Image, it.ContentSrc(), it.Timestamp, it.IsExternal, publisher)
	if err != nil {
		return dbx.StorageError("publish item", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]archive.Item, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	query := `SELECT id, title, category, type, image, content_src, timestamp, is_external
		FROM published_items
		ORDER BY timestamp DESC, id
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, dbx.StorageError("list published items", err)
	}
	defer rows.Close()

	var result []archive.Item
	for rows.Next() {
		var (
			it         archive.Item
			typ        string
			contentSrc string
		)
		if err := rows.Scan(&it.ID, &it.Title, &it.Category, &typ, &it.Image, &contentSrc, &it.Timestamp, &it.IsExternal); err != nil {
			return nil, fmt.Errorf("scan published item: %w", err)
		}
		it.Type = archive.ItemType(typ)
		if contentSrc != "" {
			it.Content = archive.RemoteContent{URL: contentSrc}
		}
		result = append(result, it)
	}

	if err := rows.Err(); err != nil {
		return nil, dbx.StorageError("list published items", err)
	}

	return result, nil
}
