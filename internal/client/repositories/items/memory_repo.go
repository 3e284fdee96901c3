package items

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/common"
)

// MemoryRepository keeps items in a map. It backs the store when the SQLite
// file cannot be opened and lives only as long as the process.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]archive.Item
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]archive.Item)}
}

func (r *MemoryRepository) Put(_ context.Context, it archive.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[it.ID] = detach(it)
	return nil
}

func (r *MemoryRepository) GetAll(_ context.Context) ([]archive.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]archive.Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, detach(it))
	}
	return out, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (archive.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok {
		return archive.Item{}, fmt.Errorf("item %s: %w", id, common.ErrNotFound)
	}
	return detach(it), nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *MemoryRepository) SetFolder(_ context.Context, id, folderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return fmt.Errorf("item %s: %w", id, common.ErrNotFound)
	}
	it.FolderID = folderID
	r.items[id] = it
	return nil
}

func (r *MemoryRepository) ClearFolder(_ context.Context, folderID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, it := range r.items {
		if it.FolderID == folderID {
			it.FolderID = ""
			r.items[id] = it
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.items)
	return nil
}

// detach mirrors what a round trip through SQLite does: the payload is
// copied and session references are dropped.
func detach(it archive.Item) archive.Item {
	if b, ok := it.Binary(); ok {
		it.Content = b.Clone()
	}
	it.SessionRef = ""
	if archive.IsSessionRef(it.Image) {
		it.Image = ""
	}
	return it
}
