package vault

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mediavault/internal/archive"
)

// CreateFolder adds a named folder. An empty type means archive.FolderAll.
func (s *Service) CreateFolder(ctx context.Context, name string, typ archive.FolderType) (archive.Folder, error) {
	f := archive.NewFolder(name, typ)
	if err := f.Validate(); err != nil {
		return archive.Folder{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.checkOpen(); err != nil {
		return archive.Folder{}, err
	}

	s.mu.Lock()
	s.folders = append(s.folders, f)
	s.notifyLocked()
	s.mu.Unlock()

	if err := s.store.Folders().Put(ctx, f); err != nil {
		s.mu.Lock()
		s.folders = removeFolder(s.folders, f.ID)
		s.notifyLocked()
		s.mu.Unlock()

		s.log.Warn(ctx, "save folder failed", "folder_id", f.ID, "err", err)
		s.degradeOn(ctx, err)
		return archive.Folder{}, fmt.Errorf("save folder %s: %w", f.ID, err)
	}
	s.log.Info(ctx, "folder created", "folder_id", f.ID, "name", f.Name)
	return f, nil
}

// DeleteFolder removes the folder and moves its items to the root. It
// returns how many items were moved; deleting an unknown folder is a no-op.
func (s *Service) DeleteFolder(ctx context.Context, id string) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.checkOpen(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	prevFolders := append([]archive.Folder(nil), s.folders...)
	prevLocal := append([]archive.Item(nil), s.local...)

	s.folders = removeFolder(s.folders, id)
	moved := 0
	for i := range s.local {
		if s.local[i].FolderID == id {
			s.local[i].FolderID = ""
			moved++
		}
	}
	s.remergeLocked()
	s.mu.Unlock()

	if _, err := s.store.DeleteFolder(ctx, id); err != nil {
		s.mu.Lock()
		s.folders = prevFolders
		s.local = prevLocal
		s.remergeLocked()
		s.mu.Unlock()

		s.log.Warn(ctx, "delete folder failed", "folder_id", id, "err", err)
		s.degradeOn(ctx, err)
		return 0, fmt.Errorf("delete folder %s: %w", id, err)
	}
	s.log.Info(ctx, "folder deleted", "folder_id", id, "moved_items", moved)
	return moved, nil
}

func removeFolder(fs []archive.Folder, id string) []archive.Folder {
	out := make([]archive.Folder, 0, len(fs))
	for _, f := range fs {
		if f.ID != id {
			out = append(out, f)
		}
	}
	return out
}
