package vault

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/client/backup"
	"github.com/dmitrijs2005/mediavault/internal/client/reconcile"
	"github.com/dmitrijs2005/mediavault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mediavault/internal/timex"
)

// ExportOptions controls Export.
type ExportOptions struct {
	Policy backup.Policy
	// Passphrase seals the document when non-empty.
	Passphrase []byte
}

// Export encodes the persisted archive, not the rehydrated view. Items are
// written newest first. With backup.PolicyUpgrade the upgraded items are
// stored with their new durable references before the document is built.
func (s *Service) Export(ctx context.Context, opts ExportOptions) ([]byte, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	its, err := s.store.Items().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	fs, err := s.store.Folders().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	sort.SliceStable(its, func(i, j int) bool { return its[i].Timestamp > its[j].Timestamp })

	var up backup.Uploader
	if s.feed != nil {
		up = s.feed
	}
	its, upgraded, err := backup.Prepare(ctx, its, opts.Policy, up)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	if len(upgraded) > 0 {
		if err := s.storeUpgraded(ctx, upgraded); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
	}

	doc, err := backup.Marshal(backup.Document{Projects: its, Folders: fs})
	if err != nil {
		return nil, err
	}
	if len(opts.Passphrase) > 0 {
		if doc, err = backup.Seal(doc, opts.Passphrase); err != nil {
			return nil, err
		}
	}

	s.stamp(ctx, metadata.KeyLastExportAt)
	s.log.Info(ctx, "archive exported", "items", len(its), "folders", len(fs),
		"policy", opts.Policy.String(), "sealed", len(opts.Passphrase) > 0)
	return doc, nil
}

func (s *Service) storeUpgraded(ctx context.Context, upgraded []archive.Item) error {
	for _, it := range upgraded {
		if err := s.store.Items().Put(ctx, it); err != nil {
			s.degradeOn(ctx, err)
			return fmt.Errorf("store upgraded item %s: %w", it.ID, err)
		}
		s.mu.Lock()
		if i := indexOf(s.local, it.ID); i >= 0 {
			s.refs.Release(it.ID)
			s.local[i] = it
		}
		s.remergeLocked()
		s.mu.Unlock()
	}
	return nil
}

// ImportResult summarizes a successful Import.
type ImportResult struct {
	Items   int
	Folders int
}

// Import replaces the archive with the document's contents. The document is
// fully decoded and validated before anything is written, and the store
// replacement is atomic, so a failed import leaves both the store and the
// view untouched. passphrase is only called for sealed documents.
func (s *Service) Import(ctx context.Context, data []byte, passphrase func() ([]byte, error)) (ImportResult, error) {
	doc, err := backup.DecodeAny(data, passphrase)
	if err != nil {
		return ImportResult{}, fmt.Errorf("import: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.checkOpen(); err != nil {
		return ImportResult{}, err
	}

	if err := s.store.ReplaceAll(ctx, doc.Projects, doc.Folders); err != nil {
		s.log.Warn(ctx, "import failed", "err", err)
		return ImportResult{}, fmt.Errorf("import: %w", err)
	}

	local := s.refs.RehydrateAll(doc.Projects)
	s.refs.Retain(reconcile.IDs(local))

	s.mu.Lock()
	s.local = local
	s.folders = append([]archive.Folder(nil), doc.Folders...)
	clear(s.hidden)
	s.status = StatusDone
	s.remergeLocked()
	s.mu.Unlock()

	s.stamp(ctx, metadata.KeyLastImportAt)
	s.log.Info(ctx, "archive imported", "items", len(doc.Projects), "folders", len(doc.Folders))
	return ImportResult{Items: len(doc.Projects), Folders: len(doc.Folders)}, nil
}

// LastExport and LastImport return when the archive was last exported or
// imported, in Unix milliseconds, or 0 if never.
func (s *Service) LastExport(ctx context.Context) int64 { return s.readStamp(ctx, metadata.KeyLastExportAt) }
func (s *Service) LastImport(ctx context.Context) int64 { return s.readStamp(ctx, metadata.KeyLastImportAt) }

func (s *Service) stamp(ctx context.Context, key string) {
	v := strconv.FormatInt(timex.NowMillis(), 10)
	if err := s.store.Metadata().Set(ctx, key, []byte(v)); err != nil {
		s.log.Warn(ctx, "record metadata failed", "key", key, "err", err)
	}
}

func (s *Service) readStamp(ctx context.Context, key string) int64 {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	b, err := s.store.Metadata().Get(ctx, key)
	if err != nil || b == nil {
		return 0
	}
	n, _ := strconv.ParseInt(string(b), 10, 64)
	return n
}
