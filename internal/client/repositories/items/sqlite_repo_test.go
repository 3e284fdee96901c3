package items

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/common"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE projects (
  id          TEXT PRIMARY KEY,
  title       TEXT NOT NULL,
  category    TEXT NOT NULL DEFAULT '',
  type        TEXT NOT NULL,
  image       TEXT NOT NULL DEFAULT '',
  content_src TEXT,
  file_data   BLOB,
  mime_hint   TEXT,
  folder_id   TEXT,
  timestamp   INTEGER NOT NULL,
  is_external INTEGER NOT NULL DEFAULT 0
);`)
	require.NoError(t, err)
	return db
}

func remoteItem(id string, ts int64) archive.Item {
	return archive.Item{
		ID:        id,
		Title:     "Remote " + id,
		Category:  "Web",
		Type:      archive.TypePhoto,
		Image:     "https://cdn.example.com/" + id + ".jpg",
		Content:   archive.RemoteContent{URL: "https://cdn.example.com/" + id + ".jpg"},
		Timestamp: ts,
	}
}

func TestPutAndGetByID_RemoteContent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	in := remoteItem("a", 100)
	in.FolderID = "f1"
	require.NoError(t, r.Put(ctx, in))

	got, err := r.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestPut_LocalBinaryRoundTrip(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	in := archive.Item{
		ID:        "bin",
		Title:     "scan.pdf",
		Type:      archive.TypeDocument,
		Image:     archive.PlaceholderImage,
		Content:   archive.LocalBinary{Data: []byte{0x25, 0x50, 0x44, 0x46}, MimeHint: "application/pdf"},
		Timestamp: 5,
	}
	require.NoError(t, r.Put(ctx, in))

	got, err := r.GetByID(ctx, "bin")
	require.NoError(t, err)
	bin, ok := got.Binary()
	require.True(t, ok)
	assert.Equal(t, []byte{0x25, 0x50, 0x44, 0x46}, bin.Data)
	assert.Equal(t, "application/pdf", bin.MimeHint)
	assert.Empty(t, got.FolderID)
}

func TestPut_NeverPersistsSessionReferences(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	in := remoteItem("s", 1)
	in.Image = "blob:session/123"
	in.SessionRef = "blob:session/123"
	require.NoError(t, r.Put(ctx, in))

	var image string
	require.NoError(t, db.QueryRow(`SELECT image FROM projects WHERE id = ?`, "s").Scan(&image))
	assert.Empty(t, image)

	got, err := r.GetByID(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, got.SessionRef)
}

func TestPut_UpsertOverwritesWholeRecord(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	first := archive.Item{
		ID: "x", Title: "one", Type: archive.TypeAudio,
		Content:  archive.LocalBinary{Data: []byte("abc"), MimeHint: "audio/mpeg"},
		FolderID: "f1", Timestamp: 1,
	}
	require.NoError(t, r.Put(ctx, first))

	second := remoteItem("x", 2)
	require.NoError(t, r.Put(ctx, second))

	got, err := r.GetByID(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, second, got)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetByID_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete_IsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, remoteItem("a", 1)))
	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.Delete(ctx, "never-existed"))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSetFolderAndClearFolder(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.Put(ctx, remoteItem(id, 1)))
	}
	require.NoError(t, r.SetFolder(ctx, "a", "f1"))
	require.NoError(t, r.SetFolder(ctx, "b", "f1"))
	require.NoError(t, r.SetFolder(ctx, "c", "f2"))

	require.ErrorIs(t, r.SetFolder(ctx, "zzz", "f1"), common.ErrNotFound)

	n, err := r.ClearFolder(ctx, "f1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	a, err := r.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, a.FolderID)

	c, err := r.GetByID(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "f2", c.FolderID)

	require.NoError(t, r.SetFolder(ctx, "c", ""))
	c, err = r.GetByID(ctx, "c")
	require.NoError(t, err)
	assert.Empty(t, c.FolderID)
}

func TestDeleteAll(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, remoteItem("a", 1)))
	require.NoError(t, r.Put(ctx, remoteItem("b", 2)))
	require.NoError(t, r.DeleteAll(ctx))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClosedDB_ReturnsStorageError(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	require.ErrorIs(t, r.Put(ctx, remoteItem("a", 1)), common.ErrStorageUnavailable)

	_, err := r.GetAll(ctx)
	require.ErrorIs(t, err, common.ErrStorageUnavailable)

	_, err = r.GetByID(ctx, "a")
	require.ErrorIs(t, err, common.ErrStorageUnavailable)
	require.NotErrorIs(t, err, common.ErrNotFound)
}
