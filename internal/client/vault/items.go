package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/common"
)

// AddItem validates it, shows it immediately and persists it. When the write
// fails the item is withdrawn from the view and the error is returned; a
// storage failure additionally switches the service to memory. Durable items
// are announced to the feed in the background when publishing is enabled.
func (s *Service) AddItem(ctx context.Context, it archive.Item) (archive.Item, error) {
	if err := it.Validate(); err != nil {
		return archive.Item{}, err
	}
	it.SessionRef = ""

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.checkOpen(); err != nil {
		return archive.Item{}, err
	}

	s.mu.Lock()
	if it.FolderID != "" && !s.hasFolderLocked(it.FolderID) {
		s.mu.Unlock()
		return archive.Item{}, fmt.Errorf("folder %s: %w", it.FolderID, common.ErrNotFound)
	}
	shown := s.refs.Rehydrate(it)
	prevIdx := indexOf(s.local, it.ID)
	var prev archive.Item
	if prevIdx >= 0 {
		prev = s.local[prevIdx]
		s.local[prevIdx] = shown
	} else {
		s.local = append([]archive.Item{shown}, s.local...)
	}
	delete(s.hidden, it.ID)
	s.status = StatusSyncing
	s.remergeLocked()
	s.mu.Unlock()

	err := s.store.Items().Put(ctx, it)

	s.mu.Lock()
	if err != nil {
		if prevIdx >= 0 {
			s.local[prevIdx] = prev
			if _, ok := prev.Binary(); ok {
				s.refs.Rehydrate(prev)
			} else {
				s.refs.Release(it.ID)
			}
		} else {
			s.local = removeItem(s.local, it.ID)
			s.refs.Release(it.ID)
		}
		s.status = StatusIdle
		s.remergeLocked()
		s.mu.Unlock()

		s.log.Warn(ctx, "save item failed", "item_id", it.ID, "err", err)
		s.degradeOn(ctx, err)
		return archive.Item{}, fmt.Errorf("save item %s: %w", it.ID, err)
	}
	if _, ok := it.Binary(); !ok && prevIdx >= 0 {
		s.refs.Release(it.ID)
	}
	s.setStatusLocked(StatusDone)
	s.mu.Unlock()

	s.log.Info(ctx, "item saved", "item_id", it.ID, "type", it.Type)
	if s.publish && it.IsDurable() {
		s.publishAsync(it)
	}
	return shown, nil
}

// AddLink bookmarks an external URL.
func (s *Service) AddLink(ctx context.Context, url, title, category string) (archive.Item, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return archive.Item{}, fmt.Errorf("%w: empty url", common.ErrInvalidItem)
	}
	if strings.TrimSpace(title) == "" {
		title = url
	}
	return s.AddItem(ctx, archive.NewLink(url, title, category))
}

// AddFile stores a local upload. The payload stays on this device until it
// is upgraded by UploadItem or an export with the upgrade policy.
func (s *Service) AddFile(ctx context.Context, title, category string, bin archive.LocalBinary) (archive.Item, error) {
	typ := archive.TypeFromMIME(bin.MimeHint)
	return s.AddItem(ctx, archive.NewItem(title, category, typ, bin.Clone(), ""))
}

// UploadItem pushes the payload to remote storage first and stores the
// resulting durable item.
func (s *Service) UploadItem(ctx context.Context, title, category string, bin archive.LocalBinary) (archive.Item, error) {
	if s.feed == nil {
		return archive.Item{}, fmt.Errorf("%w: no remote feed configured", common.ErrRemotePublishFailed)
	}
	url, err := s.feed.UploadBinary(ctx, title, bin)
	if err != nil {
		return archive.Item{}, err
	}
	typ := archive.TypeFromMIME(bin.MimeHint)
	return s.AddItem(ctx, archive.NewItem(title, category, typ, archive.RemoteContent{URL: url}, ""))
}

// DeleteItem removes an item from the store and the view. Deleting an id
// that is unknown is a no-op. A remote copy of the item stays hidden until
// the next Load, where it reappears from the feed.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	s.mu.Lock()
	idx := indexOf(s.local, id)
	var prev archive.Item
	if idx >= 0 {
		prev = s.local[idx]
		s.local = removeItem(s.local, id)
	}
	_, wasHidden := s.hidden[id]
	s.hidden[id] = struct{}{}
	s.remergeLocked()
	s.mu.Unlock()

	if err := s.store.Items().Delete(ctx, id); err != nil {
		s.mu.Lock()
		if idx >= 0 {
			s.local = insertItem(s.local, idx, prev)
		}
		if !wasHidden {
			delete(s.hidden, id)
		}
		s.remergeLocked()
		s.mu.Unlock()

		s.log.Warn(ctx, "delete item failed", "item_id", id, "err", err)
		s.degradeOn(ctx, err)
		return fmt.Errorf("delete item %s: %w", id, err)
	}

	if idx >= 0 {
		s.refs.Release(id)
	}
	s.log.Info(ctx, "item deleted", "item_id", id)
	return nil
}

// MoveItem assigns a stored item to folderID, or to the root when folderID
// is "". Items that only exist in the feed cannot be moved.
func (s *Service) MoveItem(ctx context.Context, id, folderID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	s.mu.Lock()
	idx := indexOf(s.local, id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("item %s is not stored locally: %w", id, common.ErrNotFound)
	}
	if folderID != "" && !s.hasFolderLocked(folderID) {
		s.mu.Unlock()
		return fmt.Errorf("folder %s: %w", folderID, common.ErrNotFound)
	}
	prevFolder := s.local[idx].FolderID
	s.local[idx].FolderID = folderID
	s.remergeLocked()
	s.mu.Unlock()

	if err := s.store.MoveItem(ctx, id, folderID); err != nil {
		s.mu.Lock()
		if i := indexOf(s.local, id); i >= 0 {
			s.local[i].FolderID = prevFolder
		}
		s.remergeLocked()
		s.mu.Unlock()

		s.log.Warn(ctx, "move item failed", "item_id", id, "folder_id", folderID, "err", err)
		s.degradeOn(ctx, err)
		return fmt.Errorf("move item %s: %w", id, err)
	}
	return nil
}

// OpenContent resolves what an item's content reference points at: the
// local payload behind a session reference, or a durable URL.
func (s *Service) OpenContent(id string) (Content, error) {
	it, ok := s.Item(id)
	if !ok {
		return Content{}, fmt.Errorf("item %s: %w", id, common.ErrNotFound)
	}
	c := Content{Name: it.DownloadName()}
	if it.SessionRef != "" {
		bin, ok := s.refs.Resolve(it.SessionRef)
		if !ok {
			return Content{}, fmt.Errorf("session reference for %s was released: %w", id, common.ErrNotFound)
		}
		c.Binary = &bin
		return c, nil
	}
	c.URL = it.Source()
	if c.URL == "" {
		return Content{}, fmt.Errorf("item %s has no content: %w", id, common.ErrNotFound)
	}
	return c, nil
}

// Content is the resolved payload of an item. Exactly one of Binary and URL
// is set.
type Content struct {
	Name   string
	Binary *archive.LocalBinary
	URL    string
}

func (s *Service) publishAsync(it archive.Item) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		ctx, cancel := context.WithTimeout(s.bgCtx, s.publishTimeout)
		defer cancel()

		err := s.feed.Publish(ctx, it)
		if err == nil {
			s.log.Debug(ctx, "item published", "item_id", it.ID)
			return
		}
		if errors.Is(err, context.Canceled) && s.bgCtx.Err() != nil {
			return
		}
		s.log.Warn(ctx, "publish failed", "item_id", it.ID, "err", err)
		s.mu.Lock()
		s.noticeLocked("could not publish %q to the public archive: %v", it.Title, err)
		s.notifyLocked()
		s.mu.Unlock()
	}()
}

// degradeOn switches to memory when err is a storage failure. The caller
// holds writeMu and not mu.
func (s *Service) degradeOn(ctx context.Context, err error) {
	if errors.Is(err, common.ErrStorageUnavailable) {
		s.degradeLocked(ctx, err)
	}
}

func (s *Service) hasFolderLocked(id string) bool {
	for _, f := range s.folders {
		if f.ID == id {
			return true
		}
	}
	return false
}

func removeItem(its []archive.Item, id string) []archive.Item {
	out := make([]archive.Item, 0, len(its))
	for _, it := range its {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

func insertItem(its []archive.Item, idx int, it archive.Item) []archive.Item {
	if idx > len(its) {
		idx = len(its)
	}
	out := make([]archive.Item, 0, len(its)+1)
	out = append(out, its[:idx]...)
	out = append(out, it)
	return append(out, its[idx:]...)
}
