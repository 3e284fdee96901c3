// Package items persists gallery items in the local store's `projects`
// collection.
//
// The Repository interface is what the store and the vault service depend
// on. SQLiteRepository implements it over a dbx.DBTX, so the same code runs
// against *sql.DB for single-record writes and *sql.Tx inside the store's
// multi-record units of work (folder cascade, import replace).
//
// A LocalBinary payload is stored inline in file_data beside its MIME hint;
// a RemoteContent reference is stored in content_src. Session references are
// never written.
//
//	repo := items.NewSQLiteRepository(db)
//	_ = repo.Put(ctx, item)
//	all, _ := repo.GetAll(ctx)
//	_ = repo.Delete(ctx, item.ID)
package items
