package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/common"
)

// Document is the portable archive.
type Document struct {
	Projects []archive.Item   `json:"projects"`
	Folders  []archive.Folder `json:"folders"`
}

// Marshal writes the document as two-space indented JSON. Nil slices are
// written as empty arrays.
func Marshal(doc Document) ([]byte, error) {
	if doc.Projects == nil {
		doc.Projects = []archive.Item{}
	}
	if doc.Folders == nil {
		doc.Folders = []archive.Folder{}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return append(b, '\n'), nil
}

// rawDocument distinguishes a missing "projects" key from an empty list.
type rawDocument struct {
	Projects *[]archive.Item   `json:"projects"`
	Folders  *[]archive.Folder `json:"folders"`
}

// Decode parses and validates a plain document. Every failure wraps
// common.ErrInvalidBackupFormat. A missing "folders" key reads as no
// folders; a missing "projects" key is an error.
func Decode(data []byte) (Document, error) {
	if IsSealed(data) {
		return Document{}, fmt.Errorf("%w: document is sealed", common.ErrInvalidBackupFormat)
	}

	var raw rawDocument
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return Document{}, fmt.Errorf("%w: %w", common.ErrInvalidBackupFormat, err)
	}
	if dec.More() {
		return Document{}, fmt.Errorf("%w: trailing data after document", common.ErrInvalidBackupFormat)
	}
	if raw.Projects == nil {
		return Document{}, fmt.Errorf("%w: missing \"projects\"", common.ErrInvalidBackupFormat)
	}

	doc := Document{Projects: *raw.Projects}
	if raw.Folders != nil {
		doc.Folders = *raw.Folders
	}
	if err := Validate(doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Validate checks every record and rejects duplicate ids within a
// collection.
func Validate(doc Document) error {
	var errs []error

	seen := make(map[string]struct{}, len(doc.Projects))
	for i, it := range doc.Projects {
		if err := it.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("projects[%d]: %w", i, err))
			continue
		}
		if _, dup := seen[it.ID]; dup {
			errs = append(errs, fmt.Errorf("projects[%d]: duplicate id %s", i, it.ID))
		}
		seen[it.ID] = struct{}{}
	}

	seen = make(map[string]struct{}, len(doc.Folders))
	for i, f := range doc.Folders {
		if err := f.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("folders[%d]: %w", i, err))
			continue
		}
		if _, dup := seen[f.ID]; dup {
			errs = append(errs, fmt.Errorf("folders[%d]: duplicate id %s", i, f.ID))
		}
		seen[f.ID] = struct{}{}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", common.ErrInvalidBackupFormat, errors.Join(errs...))
	}
	return nil
}
