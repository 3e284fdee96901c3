package vault

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/client/localdb"
	"github.com/dmitrijs2005/mediavault/internal/client/reconcile"
	"github.com/dmitrijs2005/mediavault/internal/common"
	"github.com/dmitrijs2005/mediavault/internal/logging"
)

// OpenStore opens the SQLite store at path. When that fails it logs the
// cause and returns an in-memory store together with the error, so the
// caller can report the degradation and carry on.
func OpenStore(ctx context.Context, path string, log logging.Logger) (localdb.Store, error) {
	st, err := localdb.Open(ctx, path)
	if err != nil {
		log.Warn(ctx, "local store unavailable, using memory", "path", path, "err", err)
		return localdb.NewMemoryStore(), err
	}
	return st, nil
}

// Load reads the store and the remote feed in parallel, rehydrates local
// payloads and rebuilds the reconciled view. Storage and feed failures are
// absorbed: they become notices and the view is built from whatever
// succeeded. When the store cannot be read the local items and folders
// already on screen are kept; they are also what the in-memory fallback is
// seeded with. The returned error is non-nil only when ctx ended.
func (s *Service) Load(ctx context.Context) (Snapshot, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.checkOpen(); err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	s.setStatusLocked(StatusSyncing)
	s.mu.Unlock()

	var (
		local    []archive.Item
		folders  []archive.Folder
		remote   []archive.Item
		localErr error
		fetchErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		local, err = s.store.Items().GetAll(ctx)
		if err != nil {
			localErr = err
			return nil
		}
		folders, localErr = s.store.Folders().GetAll(ctx)
		return nil
	})
	if s.feed != nil {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
			defer cancel()
			remote, fetchErr = s.feed.FetchPublic(fctx)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		s.mu.Lock()
		s.setStatusLocked(StatusIdle)
		s.mu.Unlock()
		return s.Snapshot(), err
	}

	if localErr != nil {
		s.degradeLocked(ctx, localErr)
		s.mu.RLock()
		local = append([]archive.Item(nil), s.local...)
		folders = append([]archive.Folder(nil), s.folders...)
		s.mu.RUnlock()
	}
	if fetchErr != nil {
		remote = nil
		if !errors.Is(fetchErr, common.ErrRemoteFetchFailed) {
			fetchErr = fmt.Errorf("%w: %w", common.ErrRemoteFetchFailed, fetchErr)
		}
		s.log.Warn(ctx, "public feed unavailable", "err", fetchErr)
	}

	local = s.refs.RehydrateAll(local)
	if n := s.refs.Retain(reconcile.IDs(local)); n > 0 {
		s.log.Debug(ctx, "released stale session references", "count", n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if fetchErr != nil {
		s.noticeLocked("public archive unavailable, showing local items only: %v", fetchErr)
	}
	s.local = local
	s.folders = folders
	s.remote = remote
	clear(s.hidden)
	s.status = StatusDone
	s.remergeLocked()

	s.log.Info(ctx, "archive loaded", "local", len(local), "remote", len(remote), "folders", len(folders))
	return s.snapshotLocked(), nil
}

// degradeLocked replaces a failing store with an in-memory one seeded from
// the cache. The caller holds writeMu and not mu.
func (s *Service) degradeLocked(ctx context.Context, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Durable() {
		s.noticeLocked("storage error: %v", cause)
		return
	}
	mem := localdb.NewMemoryStore()
	_ = mem.ReplaceAll(ctx, s.local, s.folders)

	old := s.store
	s.store = mem
	if err := old.Close(); err != nil {
		s.log.Debug(ctx, "close failed store", "err", err)
	}

	s.log.Warn(ctx, "local store failed, continuing in memory", "err", cause)
	s.noticeLocked("local storage unavailable, changes will not survive a restart: %v", cause)
}
