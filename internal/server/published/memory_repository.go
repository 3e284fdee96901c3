package published

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/mediavault/internal/archive"
)

// MemoryRepository keeps the feed in process memory. It backs the server
// when no database DSN is configured.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]archive.Item
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]archive.Item)}
}

func (r *MemoryRepository) Put(_ context.Context, it archive.Item, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := it.Metadata()
	m.FolderID = ""
	r.items[it.ID] = m
	return nil
}

func (r *MemoryRepository) List(_ context.Context, limit int) ([]archive.Item, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	r.mu.RLock()
	out := make([]archive.Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp > out[j].Timestamp
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
