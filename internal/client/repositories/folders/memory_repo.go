package folders

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/mediavault/internal/archive"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	folders map[string]archive.Folder
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{folders: make(map[string]archive.Folder)}
}

func (r *MemoryRepository) Put(_ context.Context, f archive.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.folders[f.ID] = f
	return nil
}

// GetAll uses the same ordering as the SQLite repository.
func (r *MemoryRepository) GetAll(_ context.Context) ([]archive.Folder, error) {
	r.mu.RLock()
	out := make([]archive.Folder, 0, len(r.folders))
	for _, f := range r.folders {
		out = append(out, f)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.folders[id]
	return ok, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.folders, id)
	return nil
}

func (r *MemoryRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.folders)
	return nil
}
