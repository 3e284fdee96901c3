// Package localdb is the archive's Local Store.
//
// A Store exposes three independent collections (items in `projects`,
// folders, and a metadata key/value table) plus the few operations that must
// touch more than one record atomically: moving an item into a folder,
// deleting a folder together with the folder references that point at it,
// and replacing the whole archive on import.
//
// SQLiteStore keeps everything in a single SQLite file whose schema is
// versioned by goose; every migration step is additive. MemoryStore offers
// the same semantics without durability and is what the vault falls back to
// when the file cannot be opened.
//
//	st, err := localdb.Open(ctx, "vault.db")
//	if err != nil {
//	    st = localdb.NewMemoryStore()
//	}
//	defer st.Close()
package localdb
