package vault

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mediavault/internal/common"
)

// StoreInfo describes the store currently backing the archive.
type StoreInfo struct {
	Durable       bool
	SchemaVersion int64
	// Metadata holds the bookkeeping values, such as the last export time.
	Metadata map[string]string
}

// StoreInfo reports on the current store. After a fallback to memory it
// describes the in-memory store.
func (s *Service) StoreInfo(ctx context.Context) (StoreInfo, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.checkOpen(); err != nil {
		return StoreInfo{}, err
	}

	v, err := s.store.SchemaVersion(ctx)
	if err != nil {
		return StoreInfo{}, err
	}
	kv, err := s.store.Metadata().List(ctx)
	if err != nil {
		return StoreInfo{}, err
	}
	info := StoreInfo{Durable: s.store.Durable(), SchemaVersion: v, Metadata: make(map[string]string, len(kv))}
	for k, b := range kv {
		info.Metadata[k] = string(b)
	}
	return info, nil
}

// IsStored reports whether id is kept in the local store, as opposed to
// only being shown from the public feed.
func (s *Service) IsStored(ctx context.Context, id string) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.checkOpen(); err != nil {
		return false, err
	}

	_, err := s.store.Items().GetByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, common.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
