package archive

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mediavault/internal/common"
	"github.com/dmitrijs2005/mediavault/internal/timex"
)

// FolderType is a hint for the create-folder UI. It does not constrain the
// items placed in the folder.
type FolderType string

const (
	FolderPhoto    FolderType = "photo"
	FolderVideo    FolderType = "video"
	FolderAudio    FolderType = "audio"
	FolderDocument FolderType = "document"
	FolderAll      FolderType = "all"
)

func (t FolderType) Valid() bool {
	switch t {
	case FolderPhoto, FolderVideo, FolderAudio, FolderDocument, FolderAll:
		return true
	}
	return false
}

// Folder is a named grouping of items.
type Folder struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      FolderType `json:"type"`
	Timestamp int64      `json:"timestamp"`
}

// NewFolder builds a folder with a fresh id. An empty type means FolderAll.
func NewFolder(name string, typ FolderType) Folder {
	if typ == "" {
		typ = FolderAll
	}
	return Folder{ID: NewID(), Name: strings.TrimSpace(name), Type: typ, Timestamp: timex.NowMillis()}
}

func (f Folder) Validate() error {
	switch {
	case strings.TrimSpace(f.ID) == "":
		return fmt.Errorf("%w: folder with empty id", common.ErrInvalidItem)
	case strings.TrimSpace(f.Name) == "":
		return fmt.Errorf("%w: folder %s: empty name", common.ErrInvalidItem, f.ID)
	case !f.Type.Valid():
		return fmt.Errorf("%w: folder %s: unknown type %q", common.ErrInvalidItem, f.ID, f.Type)
	}
	return nil
}
