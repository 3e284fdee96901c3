package localdb

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/client/repositories/folders"
	"github.com/dmitrijs2005/mediavault/internal/client/repositories/items"
	"github.com/dmitrijs2005/mediavault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mediavault/internal/common"
)

// MemoryStore implements Store without durability.
type MemoryStore struct {
	// mu serializes the multi-record operations against each other.
	mu       sync.Mutex
	items    *items.MemoryRepository
	folders  *folders.MemoryRepository
	metadata *metadata.MemoryRepository
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:    items.NewMemoryRepository(),
		folders:  folders.NewMemoryRepository(),
		metadata: metadata.NewMemoryRepository(),
	}
}

func (s *MemoryStore) Items() items.Repository       { return s.items }
func (s *MemoryStore) Folders() folders.Repository   { return s.folders }
func (s *MemoryStore) Metadata() metadata.Repository { return s.metadata }
func (s *MemoryStore) Durable() bool                 { return false }
func (s *MemoryStore) Close() error                  { return nil }

func (s *MemoryStore) SchemaVersion(context.Context) (int64, error) { return 0, nil }

func (s *MemoryStore) MoveItem(ctx context.Context, itemID, folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if folderID != "" {
		ok, _ := s.folders.Exists(ctx, folderID)
		if !ok {
			return fmt.Errorf("folder %s: %w", folderID, common.ErrNotFound)
		}
	}
	return s.items.SetFolder(ctx, itemID, folderID)
}

func (s *MemoryStore) DeleteFolder(ctx context.Context, folderID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, _ := s.items.ClearFolder(ctx, folderID)
	_ = s.folders.Delete(ctx, folderID)
	return n, nil
}

func (s *MemoryStore) ReplaceAll(ctx context.Context, its []archive.Item, fs []archive.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.items.DeleteAll(ctx)
	_ = s.folders.DeleteAll(ctx)
	for _, f := range fs {
		_ = s.folders.Put(ctx, f)
	}
	for _, it := range its {
		_ = s.items.Put(ctx, it)
	}
	return nil
}
