// Package archive defines the media archive's data model: gallery items,
// folders, the content variant that separates durable references from local
// binary payloads, and the filters used to browse the archive.
package archive

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mediavault/internal/common"
	"github.com/dmitrijs2005/mediavault/internal/timex"
	"github.com/google/uuid"
)

// ItemType determines how an item is rendered.
type ItemType string

const (
	TypePhoto    ItemType = "photo"
	TypeVideo    ItemType = "video"
	TypeAudio    ItemType = "audio"
	TypeDocument ItemType = "document"
	TypeLink     ItemType = "link"
)

// ItemTypes lists every valid ItemType.
var ItemTypes = []ItemType{TypePhoto, TypeVideo, TypeAudio, TypeDocument, TypeLink}

func (t ItemType) Valid() bool {
	for _, v := range ItemTypes {
		if t == v {
			return true
		}
	}
	return false
}

// PlaceholderImage is the thumbnail used for uploads that have no natural
// preview (video, audio, documents).
const PlaceholderImage = "https://images.unsplash.com/photo-1450101499163-c8848c66ca85?auto=format&fit=crop&w=400&q=80"

// Item is a single archived asset.
type Item struct {
	ID       string
	Title    string
	Category string
	Type     ItemType
	// Image is the thumbnail reference.
	Image string
	// Content is the primary payload. Nil means callers fall back to Image.
	Content  Content
	FolderID string
	// Timestamp is the creation time in Unix milliseconds.
	Timestamp  int64
	IsExternal bool

	// SessionRef is the session-local reference minted for a LocalBinary by
	// the rehydrator. It is never persisted or exported.
	SessionRef string
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// NewItem builds an item with a fresh id and the current timestamp. Photos
// backed by RemoteContent use the content URL as their thumbnail; other
// types without an image get PlaceholderImage.
func NewItem(title, category string, typ ItemType, content Content, image string) Item {
	if image == "" {
		if rc, ok := content.(RemoteContent); ok && typ == TypePhoto {
			image = rc.URL
		} else if typ != TypePhoto {
			image = PlaceholderImage
		}
	}
	return Item{
		ID:         NewID(),
		Title:      strings.TrimSpace(title),
		Category:   strings.TrimSpace(category),
		Type:       typ,
		Image:      image,
		Content:    content,
		Timestamp:  timex.NowMillis(),
		IsExternal: typ == TypeLink,
	}
}

// NewLink builds an external bookmark item.
func NewLink(url, title, category string) Item {
	return NewItem(title, category, TypeLink, RemoteContent{URL: strings.TrimSpace(url)}, PlaceholderImage)
}

// TypeFromMIME classifies an upload by its MIME type.
func TypeFromMIME(mime string) ItemType {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return TypePhoto
	case strings.HasPrefix(mime, "video/"):
		return TypeVideo
	case strings.HasPrefix(mime, "audio/"):
		return TypeAudio
	default:
		return TypeDocument
	}
}

// ContentSrc is the reference to the full content: the session reference if
// one was minted, otherwise the durable URL, otherwise "".
func (i Item) ContentSrc() string {
	if i.SessionRef != "" {
		return i.SessionRef
	}
	if rc, ok := i.Content.(RemoteContent); ok {
		return rc.URL
	}
	return ""
}

// Source is ContentSrc with the thumbnail as fallback.
func (i Item) Source() string {
	if src := i.ContentSrc(); src != "" {
		return src
	}
	return i.Image
}

// Binary returns the local payload, if any.
func (i Item) Binary() (LocalBinary, bool) {
	b, ok := i.Content.(LocalBinary)
	return b, ok
}

// IsDurable reports whether the item can leave this device without losing
// its content.
func (i Item) IsDurable() bool {
	_, local := i.Content.(LocalBinary)
	return !local
}

// DownloadName is the file name offered when saving the item's content.
func (i Item) DownloadName() string {
	return i.Title + "_Archive"
}

// Metadata returns a copy without the binary payload or session reference,
// suitable for announcing to a shared feed.
func (i Item) Metadata() Item {
	m := i
	m.SessionRef = ""
	if _, ok := m.Content.(LocalBinary); ok {
		m.Content = nil
	}
	return m
}

// Validate checks the fields every persisted item must carry.
func (i Item) Validate() error {
	switch {
	case strings.TrimSpace(i.ID) == "":
		return fmt.Errorf("%w: empty id", common.ErrInvalidItem)
	case strings.TrimSpace(i.Title) == "":
		return fmt.Errorf("%w: item %s: empty title", common.ErrInvalidItem, i.ID)
	case !i.Type.Valid():
		return fmt.Errorf("%w: item %s: unknown type %q", common.ErrInvalidItem, i.ID, i.Type)
	case i.Timestamp < 0:
		return fmt.Errorf("%w: item %s: negative timestamp", common.ErrInvalidItem, i.ID)
	}
	if bin, ok := i.Binary(); ok && len(bin.Data) == 0 {
		return fmt.Errorf("%w: item %s: empty payload", common.ErrInvalidItem, i.ID)
	}
	return nil
}
