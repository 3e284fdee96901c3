package vault

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/client/localdb"
	"github.com/dmitrijs2005/mediavault/internal/client/repositories/folders"
	"github.com/dmitrijs2005/mediavault/internal/client/repositories/items"
	"github.com/dmitrijs2005/mediavault/internal/dbx"
)

var errDisk = dbx.StorageError("disk", errors.New("disk I/O error"))

type fakeFeed struct {
	mu         sync.Mutex
	items      []archive.Item
	fetchErr   error
	block      bool
	published  []archive.Item
	publishErr error
	uploads    int
}

func (f *fakeFeed) FetchPublic(ctx context.Context) ([]archive.Item, error) {
	f.mu.Lock()
	block, items, err := f.block, append([]archive.Item(nil), f.items...), f.fetchErr
	f.mu.Unlock()
	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return items, err
}

func (f *fakeFeed) Publish(_ context.Context, it archive.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, it)
	return nil
}

func (f *fakeFeed) UploadBinary(_ context.Context, name string, _ archive.LocalBinary) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	return "https://cdn.example.com/" + name, nil
}

func (f *fakeFeed) publishedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

// flakyStore is a durable-looking store whose item and folder repositories
// can be made to fail.
type flakyStore struct {
	*localdb.MemoryStore
	mu         sync.Mutex
	failReads  bool
	failWrites bool
}

func newFlakyStore() *flakyStore { return &flakyStore{MemoryStore: localdb.NewMemoryStore()} }

func (s *flakyStore) Durable() bool { return true }

func (s *flakyStore) set(reads, writes bool) {
	s.mu.Lock()
	s.failReads, s.failWrites = reads, writes
	s.mu.Unlock()
}

func (s *flakyStore) flags() (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failReads, s.failWrites
}

func (s *flakyStore) Items() items.Repository {
	return &flakyItems{Repository: s.MemoryStore.Items(), s: s}
}

func (s *flakyStore) Folders() folders.Repository {
	return &flakyFolders{Repository: s.MemoryStore.Folders(), s: s}
}

func (s *flakyStore) DeleteFolder(ctx context.Context, id string) (int64, error) {
	if _, w := s.flags(); w {
		return 0, errDisk
	}
	return s.MemoryStore.DeleteFolder(ctx, id)
}

func (s *flakyStore) MoveItem(ctx context.Context, id, folderID string) error {
	if _, w := s.flags(); w {
		return errDisk
	}
	return s.MemoryStore.MoveItem(ctx, id, folderID)
}

func (s *flakyStore) ReplaceAll(ctx context.Context, its []archive.Item, fs []archive.Folder) error {
	if _, w := s.flags(); w {
		return errDisk
	}
	return s.MemoryStore.ReplaceAll(ctx, its, fs)
}

type flakyItems struct {
	items.Repository
	s *flakyStore
}

func (r *flakyItems) GetAll(ctx context.Context) ([]archive.Item, error) {
	if rd, _ := r.s.flags(); rd {
		return nil, errDisk
	}
	return r.Repository.GetAll(ctx)
}

func (r *flakyItems) Put(ctx context.Context, it archive.Item) error {
	if _, w := r.s.flags(); w {
		return errDisk
	}
	return r.Repository.Put(ctx, it)
}

func (r *flakyItems) Delete(ctx context.Context, id string) error {
	if _, w := r.s.flags(); w {
		return errDisk
	}
	return r.Repository.Delete(ctx, id)
}

type flakyFolders struct {
	folders.Repository
	s *flakyStore
}

func (r *flakyFolders) GetAll(ctx context.Context) ([]archive.Folder, error) {
	if rd, _ := r.s.flags(); rd {
		return nil, errDisk
	}
	return r.Repository.GetAll(ctx)
}

func (r *flakyFolders) Put(ctx context.Context, f archive.Folder) error {
	if _, w := r.s.flags(); w {
		return errDisk
	}
	return r.Repository.Put(ctx, f)
}

func newService(t *testing.T, st localdb.Store, fd *fakeFeed) *Service {
	t.Helper()
	opts := Options{Store: st, FetchTimeout: time.Second}
	if fd != nil {
		opts.Feed = fd
	}
	s := New(opts)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func linkItem(id string, ts int64, title string) archive.Item {
	return archive.Item{
		ID: id, Title: title, Type: archive.TypeLink, Image: archive.PlaceholderImage,
		Content: archive.RemoteContent{URL: "https://example.com/" + id}, Timestamp: ts, IsExternal: true,
	}
}

func ids(its []archive.Item) []string {
	out := make([]string, len(its))
	for i, it := range its {
		out[i] = it.ID
	}
	return out
}

func mustLoad(t *testing.T, s *Service) Snapshot {
	t.Helper()
	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	return snap
}
