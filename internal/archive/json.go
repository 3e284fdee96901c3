package archive

import (
	"encoding/json"
	"strings"
)

// SessionRefScheme prefixes every session-local reference. References with
// this scheme are dead outside the session that minted them and are dropped
// when decoding.
const SessionRefScheme = "blob:"

// IsSessionRef reports whether ref is a session-local reference.
func IsSessionRef(ref string) bool {
	return strings.HasPrefix(ref, SessionRefScheme)
}

type fileDataJSON struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

// itemJSON is the wire shape shared by backup documents and the public feed.
type itemJSON struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Category   string        `json:"category"`
	Image      string        `json:"image"`
	ContentSrc string        `json:"contentSrc,omitempty"`
	FileData   *fileDataJSON `json:"fileData,omitempty"`
	Type       ItemType      `json:"type"`
	FolderID   string        `json:"folderId,omitempty"`
	Timestamp  int64         `json:"timestamp"`
	IsExternal bool          `json:"isExternal,omitempty"`
}

// MarshalJSON writes the durable form of the item. SessionRef is never
// written; a LocalBinary is written inline as fileData.
func (i Item) MarshalJSON() ([]byte, error) {
	w := itemJSON{
		ID:         i.ID,
		Title:      i.Title,
		Category:   i.Category,
		Image:      i.Image,
		Type:       i.Type,
		FolderID:   i.FolderID,
		Timestamp:  i.Timestamp,
		IsExternal: i.IsExternal,
	}
	if IsSessionRef(w.Image) {
		w.Image = ""
	}
	switch c := i.Content.(type) {
	case RemoteContent:
		w.ContentSrc = c.URL
	case LocalBinary:
		w.FileData = &fileDataJSON{MimeType: c.MimeHint, Data: c.Data}
	}
	return json.Marshal(w)
}

func (i *Item) UnmarshalJSON(b []byte) error {
	var w itemJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*i = Item{
		ID:         w.ID,
		Title:      w.Title,
		Category:   w.Category,
		Image:      w.Image,
		Type:       w.Type,
		FolderID:   w.FolderID,
		Timestamp:  w.Timestamp,
		IsExternal: w.IsExternal,
	}
	switch {
	case w.FileData != nil && len(w.FileData.Data) > 0:
		i.Content = LocalBinary{Data: w.FileData.Data, MimeHint: w.FileData.MimeType}
	case w.ContentSrc != "" && !IsSessionRef(w.ContentSrc):
		i.Content = RemoteContent{URL: w.ContentSrc}
	}
	if IsSessionRef(i.Image) {
		i.Image = ""
		if rc, ok := i.Content.(RemoteContent); ok && i.Type == TypePhoto {
			i.Image = rc.URL
		}
	}
	return nil
}
